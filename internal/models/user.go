package models

type User struct {
	BaseModel
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles"`
}

type Role struct {
	BaseModel
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`

	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions"`
}

type Permission struct {
	BaseModel
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
}

// HasRole reports whether the user carries the role with the given slug.
// Roles must be preloaded.
func (u *User) HasRole(slug string) bool {
	for _, r := range u.Roles {
		if r.Slug == slug {
			return true
		}
	}
	return false
}

// HasPermission reports whether any of the user's roles grants the
// permission. Roles and their permissions must be preloaded.
func (u *User) HasPermission(slug string) bool {
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if p.Slug == slug {
				return true
			}
		}
	}
	return false
}
