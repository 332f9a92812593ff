// internal/profile/routes.go

package profile

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes attaches profile endpoints to the router. The auth
// middleware is passed as a plain mux middleware because this package
// is imported by auth itself (registration writes profile documents).
func RegisterRoutes(router *mux.Router, handler *Handler, authenticate mux.MiddlewareFunc) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authenticate)

	api.HandleFunc("/profile", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/profile", handler.UpdateMyProfile).Methods("PATCH")
	api.HandleFunc("/profile/photo", handler.UploadPhoto).Methods("POST")
	api.HandleFunc("/users/{id}", handler.GetProfile).Methods("GET")
}
