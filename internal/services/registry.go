package services

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService        AuthService
	EventService       EventService
	UserService        UserService
	TranslationService TranslationService
}
