package domain

// User categories, in descending order of standing.
const (
	UserCategoryTop    = "TOP"
	UserCategoryMedium = "MEDIUM"
	UserCategoryLow    = "LOW"
)

type User struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Category string `bson:"category" json:"category"`
}

// Identity is the authenticated slice of a session record.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"user_email"`
}
