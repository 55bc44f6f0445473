package event

type Type string

const (
	TypeCategoryCreated    Type = "category.created"
	TypeCategoryRenamed    Type = "category.renamed"
	TypeCategoryDeleted    Type = "category.deleted"
	TypeThumbnailUploaded  Type = "thumbnail.uploaded"
	TypeThumbnailUpdated   Type = "thumbnail.updated"
	TypeThumbnailDeleted   Type = "thumbnail.deleted"
	TypeFolderCreated      Type = "folder.created"
	TypeFolderRenamed      Type = "folder.renamed"
	TypeFolderDeleted      Type = "folder.deleted"
	TypeAssetUploaded      Type = "asset.uploaded"
	TypeAssetRenamed       Type = "asset.renamed"
	TypeAssetMoved         Type = "asset.moved"
	TypeAssetDeleted       Type = "asset.deleted"
	TypePostUploaded       Type = "post.uploaded"
	TypePostDeleted        Type = "post.deleted"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
