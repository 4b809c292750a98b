package user

// User is a row of the users table. Password is kept exactly as submitted.
type User struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	Password  string
	Age       *int
	Gender    string
}
