package model

// Role determines which parts of the API a user may call.  Students can
// browse availability and request reservations; staff and admins may also
// approve or reject pending requests.  Role checks happen in middleware,
// never inside the reservation engine itself.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
)

// ValidRole reports whether s is one of the known role values.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// User is an account holder identified by an institutional email address.
//
// Fields:
//  ID    – globally unique identifier (UUID string).
//  Name  – display name shown on reservations.
//  Email – institutional email, validated against the allowed domain
//          at registration time.
//  Role  – STUDENT, STAFF or ADMIN.
type User struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Role  Role   `json:"role" bson:"role"`
}
