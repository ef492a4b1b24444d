package review

type CreateRequest struct {
	Rating   int    `json:"rating"`
	Comment  string `json:"comment" binding:"max=2000"`
	IsPublic *bool  `json:"is_public"`
}
