package dto

// PostRequest is the body of create and update. Length limits are enforced
// by domain.Post.
type PostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (r *PostRequest) Validate() error {
	return validateStruct(r)
}
