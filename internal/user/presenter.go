package user

import "strconv"

// UserView is what templates see of a user. The password is left out.
type UserView struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	Age       string
	Gender    string
}

func PresentUser(u User) UserView {
	view := UserView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Gender:    u.Gender,
	}
	if u.Age != nil {
		view.Age = strconv.Itoa(*u.Age)
	}
	return view
}

// PresentUsers keeps a nil slice nil so templates can tell "not searched"
// apart from "no matches".
func PresentUsers(users []User) []UserView {
	if users == nil {
		return nil
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, PresentUser(u))
	}
	return views
}
