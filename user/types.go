package user

// User represents a staff account of the shop
type User struct {
	ID                   int64    `json:"id"`
	AccountOwner         bool     `json:"account_owner"`
	Bio                  string   `json:"bio,omitempty"`
	Email                string   `json:"email"`
	FirstName            string   `json:"first_name"`
	LastName             string   `json:"last_name"`
	IM                   string   `json:"im,omitempty"`
	Locale               string   `json:"locale,omitempty"`
	Permissions          []string `json:"permissions"`
	Phone                string   `json:"phone,omitempty"`
	ReceiveAnnouncements int      `json:"receive_announcements"`
	ScreenName           string   `json:"screen_name,omitempty"`
	URL                  string   `json:"url,omitempty"`
	UserType             string   `json:"user_type"`
	TFAEnabled           bool     `json:"tfa_enabled"`
}

// FullName returns the first and last name joined by a space
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasPermission reports whether the user was granted permission p.
// Account owners hold every permission.
func (u *User) HasPermission(p string) bool {
	if u.AccountOwner {
		return true
	}
	for _, granted := range u.Permissions {
		if granted == p || granted == "full" {
			return true
		}
	}
	return false
}
