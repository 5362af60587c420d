package posts

import "github.com/recordhub/recordhub-backend/pkg/db/models"

// PostDTO is the transport shape; timestamps stay internal.
type PostDTO struct {
	UserID int64  `json:"userId"`
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// CreatePostDTO holds the data required by the repo to persist a new post.
type CreatePostDTO struct {
	Title  string
	Body   string
	UserID int64
}

func FromModel(p *models.Post) *PostDTO {
	if p == nil {
		return nil
	}
	return &PostDTO{
		UserID: p.UserID,
		ID:     p.ID,
		Title:  p.Title,
		Body:   p.Body,
	}
}

func (c CreatePostDTO) ToModel() *models.Post {
	return &models.Post{
		Title:  c.Title,
		Body:   c.Body,
		UserID: c.UserID,
	}
}
