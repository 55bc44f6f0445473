package model

type LoginRequest struct {
	Password string `json:"password"`
}

type CreateCategoryRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RenameRequest struct {
	Name string `json:"name"`
}

type CreateSubcategoryRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EditThumbnailRequest carries the optional fields of the unified
// move-and-maybe-rename operation. NewSubcategory distinguishes "not
// provided" (nil) from "move to the category root" (empty string).
type EditThumbnailRequest struct {
	NewName        string  `json:"newName"`
	NewCategory    string  `json:"newCategory"`
	NewSubcategory *string `json:"newSubcategory"`
}

type CreateFolderRequest struct {
	Name   string `json:"name"`
	Parent string `json:"parent"`
}

type RenameFolderRequest struct {
	OldPath string `json:"oldPath"`
	NewName string `json:"newName"`
}

type DeleteFolderRequest struct {
	FolderPath string `json:"folderPath"`
}

type RenameAssetRequest struct {
	NewName string `json:"newName"`
}

type MoveAssetRequest struct {
	TargetFolder string `json:"targetFolder"`
}
