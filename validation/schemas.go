package validation

// RegisterUser is the registration payload.
type RegisterUser struct {
	Email    string `json:"email" trim:"true" validate:"required,min=2,max=50,email"`
	Username string `json:"username" sanitize:"text" trim:"true" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// LoginUser is the login payload. Only presence is checked so a failed login
// never hints at which credential was wrong.
type LoginUser struct {
	Email    string `json:"email" trim:"true" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUser is the profile update payload. Absent fields are left untouched.
type UpdateUser struct {
	Username *string `json:"username" sanitize:"text" trim:"true" validate:"omitempty,min=2,max=50"`
	Password *string `json:"password" validate:"omitempty,min=8,max=100"`
	Bio      *string `json:"bio" sanitize:"text" trim:"true" validate:"omitempty,max=500"`
}

// CreatePost is the text part of the multipart post creation form.
type CreatePost struct {
	Title    string `json:"title" form:"title" sanitize:"text" trim:"true" validate:"required,min=2,max=200"`
	Body     string `json:"body" form:"body" sanitize:"html" trim:"true" validate:"required,min=10"`
	Category string `json:"category" form:"category" sanitize:"text" trim:"true" validate:"required,min=2"`
}

// UpdatePost edits post text. Absent fields are left untouched.
type UpdatePost struct {
	Title    *string `json:"title" sanitize:"text" trim:"true" validate:"omitempty,min=2,max=200"`
	Body     *string `json:"body" sanitize:"html" trim:"true" validate:"omitempty,min=10"`
	Category *string `json:"category" sanitize:"text" trim:"true" validate:"omitempty,min=2"`
}

// CreateComment attaches a comment to a post.
type CreateComment struct {
	PostID string `json:"post_id" label:"Post ID" trim:"true" validate:"required,objectid"`
	Text   string `json:"text" label:"Text" sanitize:"text" trim:"true" validate:"required,min=2"`
}

// UpdateComment replaces a comment's text.
type UpdateComment struct {
	Text string `json:"text" label:"Text" sanitize:"text" trim:"true" validate:"required,min=2"`
}

// CreateCategory adds a category.
type CreateCategory struct {
	Name string `json:"name" sanitize:"text" trim:"true" validate:"required,max=64"`
}
