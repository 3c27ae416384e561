package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogforge/blogd/models"
)

func strp(s string) *string { return &s }

func TestValidateFirstErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
		want    string
	}{
		{
			name:    "missing email reported before password",
			payload: &RegisterUser{Username: "bob"},
			want:    `"email" is required`,
		},
		{
			name:    "malformed email",
			payload: &RegisterUser{Email: "not-an-email", Username: "bob", Password: "password1"},
			want:    `"email" must be a valid email`,
		},
		{
			name:    "short password",
			payload: &RegisterUser{Email: "bob@example.com", Username: "bob", Password: "short"},
			want:    `"password" length must be at least 8 characters long`,
		},
		{
			name:    "title too short after trimming",
			payload: &CreatePost{Title: "  a  ", Body: "long enough body", Category: "go"},
			want:    `"title" length must be at least 2 characters long`,
		},
		{
			name:    "title too long",
			payload: &UpdatePost{Title: strp(strings.Repeat("x", 201))},
			want:    `"title" length must be less than or equal to 200 characters long`,
		},
		{
			name:    "comment label used in message",
			payload: &CreateComment{PostID: models.NewID(), Text: "x"},
			want:    `"Text" length must be at least 2 characters long`,
		},
		{
			name:    "comment post id must be an id",
			payload: &CreateComment{PostID: "123", Text: "hello"},
			want:    `"Post ID" must be a valid id`,
		},
		{
			name:    "markup only title is empty once stripped",
			payload: &CreatePost{Title: "<b></b>", Body: "long enough body", Category: "go"},
			want:    `"title" is required`,
		},
		{
			name:    "script body is empty once sanitized",
			payload: &CreatePost{Title: "Hi there", Body: "<script>alert(1)</script>", Category: "go"},
			want:    `"body" is required`,
		},
		{
			name:    "markup only category",
			payload: &CreatePost{Title: "Hi there", Body: "long enough body", Category: "<i></i>"},
			want:    `"category" is required`,
		},
		{
			name:    "comment text measured without tags",
			payload: &CreateComment{PostID: models.NewID(), Text: "<b>x</b>"},
			want:    `"Text" length must be at least 2 characters long`,
		},
		{
			name:    "username measured without tags",
			payload: &UpdateUser{Username: strp("<em>a</em>")},
			want:    `"username" length must be at least 2 characters long`,
		},
		{
			name:    "category name required",
			payload: &CreateCategory{Name: "   "},
			want:    `"name" is required`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.payload)
			require.Error(t, err)
			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
		})
	}
}

func TestValidateAcceptsAndTrims(t *testing.T) {
	reg := &RegisterUser{Email: "  bob@example.com ", Username: " bob ", Password: " spaced password "}
	require.NoError(t, Validate(reg))
	assert.Equal(t, "bob@example.com", reg.Email)
	assert.Equal(t, "bob", reg.Username)
	assert.Equal(t, " spaced password ", reg.Password, "passwords are not trimmed")

	upd := &UpdatePost{Body: strp("  a body of ten+ chars  ")}
	require.NoError(t, Validate(upd))
	assert.Equal(t, "a body of ten+ chars", *upd.Body)
	assert.Nil(t, upd.Title)
}

func TestUpdateSchemasEnforceCreationRulesWhenPresent(t *testing.T) {
	assert.NoError(t, Validate(&UpdateUser{}))
	assert.Error(t, Validate(&UpdateUser{Username: strp("a")}))
	assert.Error(t, Validate(&UpdateUser{Password: strp("short")}))
	assert.NoError(t, Validate(&UpdateUser{Bio: strp("")}))
	assert.Error(t, Validate(&UpdatePost{Category: strp("x")}))
}

func TestLengthRulesSeeStoredValue(t *testing.T) {
	amps := &CreatePost{Title: strings.Repeat("&", 200), Body: "fish & chips & peas", Category: "food & drink"}
	require.NoError(t, Validate(amps))
	assert.Equal(t, strings.Repeat("&", 200), amps.Title)
	assert.Equal(t, "food & drink", amps.Category)

	err := Validate(&UpdatePost{Title: strp(strings.Repeat("&", 201))})
	assert.EqualError(t, err, `"title" length must be less than or equal to 200 characters long`)

	reg := &RegisterUser{Email: "tom@example.com", Username: " <b>tom&jerry</b> ", Password: "password1"}
	require.NoError(t, Validate(reg))
	assert.Equal(t, "tom&jerry", reg.Username)
}
