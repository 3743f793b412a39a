package internal

import (
	"net/http"
	"waifud/internal/controllers"
	"waifud/internal/providers"
)

func InitRoutes(wifeController *controllers.WifeController, galleryController *controllers.GalleryController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/draw", http.HandlerFunc(wifeController.Draw))
	routers.Post("/ntr", http.HandlerFunc(wifeController.Ntr))
	routers.Post("/ntr/toggle", http.HandlerFunc(wifeController.ToggleNtr))
	routers.Post("/search", http.HandlerFunc(wifeController.Search))
	routers.Get("/gallery", http.HandlerFunc(galleryController.GroupGallery))
	routers.Get("/gallery/personal", http.HandlerFunc(galleryController.PersonalGallery))
	routers.Delete("/gallery/base", http.HandlerFunc(galleryController.InvalidateBase))
	return routers
}
