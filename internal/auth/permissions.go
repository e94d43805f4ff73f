package auth

// Role slugs.
const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RoleCustomer  = "customer"
)

// Permission slugs.
const (
	PermViewEvents      = "view-events"
	PermCreateEvents    = "create-events"
	PermEditEvents      = "edit-events"
	PermDeleteEvents    = "delete-events"
	PermManageUsers     = "manage-users"
	PermPurchaseTickets = "purchase-tickets"
)

// DefaultRolePermissions maps each role to the permissions it is seeded
// with. The database stays the source of truth after seeding; this map only
// describes the initial grant.
var DefaultRolePermissions = map[string][]string{
	RoleAdmin: {
		PermViewEvents,
		PermCreateEvents,
		PermEditEvents,
		PermDeleteEvents,
		PermManageUsers,
		PermPurchaseTickets,
	},
	RoleOrganizer: {
		PermViewEvents,
		PermCreateEvents,
		PermEditEvents,
		PermDeleteEvents,
	},
	RoleCustomer: {
		PermViewEvents,
		PermPurchaseTickets,
	},
}

// AllRoles lists every seeded role slug in a stable order.
var AllRoles = []string{RoleAdmin, RoleOrganizer, RoleCustomer}

// AllPermissions lists every seeded permission slug in a stable order.
var AllPermissions = []string{
	PermViewEvents,
	PermCreateEvents,
	PermEditEvents,
	PermDeleteEvents,
	PermManageUsers,
	PermPurchaseTickets,
}
