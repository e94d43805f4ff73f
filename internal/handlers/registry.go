package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	EventHandler       *EventHandler
	UserHandler        *UserHandler
	TranslationHandler *TranslationHandler
	ImageHandler       *ImageHandler
	UploadHandler      *UploadHandler
}
