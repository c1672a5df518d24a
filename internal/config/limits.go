package config

const (
	// MaxCategoryNameLength matches the categories.name column width.
	MaxCategoryNameLength = 100

	// MaxPostTitleLength matches the posts.title column width.
	MaxPostTitleLength = 100

	// MaxUsernameLength matches the users.username column width.
	MaxUsernameLength = 150

	// MaxNameLength bounds first_name and last_name.
	MaxNameLength = 150

	// MaxRequestBodyBytes caps JSON request bodies (1MB).
	MaxRequestBodyBytes = 1 << 20
)
