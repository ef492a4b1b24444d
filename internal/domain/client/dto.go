package client

type Input struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"max=255"`
	Phone string `json:"phone" binding:"max=50"`
}
