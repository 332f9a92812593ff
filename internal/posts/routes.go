// internal/posts/routes.go

package posts

import (
	"github.com/gorilla/mux"

	"github.com/stvnptra/picshare/internal/auth"
)

// RegisterRoutes attaches post endpoints to the router
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/posts", handler.GetFeed).Methods("GET")
	api.HandleFunc("/posts", handler.CreatePost).Methods("POST")
	api.HandleFunc("/posts/{id}", handler.GetPost).Methods("GET")
	api.HandleFunc("/posts/{id}", handler.UpdateCaption).Methods("PATCH")
	api.HandleFunc("/posts/{id}", handler.DeletePost).Methods("DELETE")

	api.HandleFunc("/posts/{id}/like", handler.LikePost).Methods("POST")
	api.HandleFunc("/posts/{id}/like", handler.UnlikePost).Methods("DELETE")
	api.HandleFunc("/posts/{id}/like/toggle", handler.ToggleLike).Methods("POST")

	api.HandleFunc("/posts/{id}/comments", handler.GetComments).Methods("GET")
	api.HandleFunc("/posts/{id}/comments", handler.AddComment).Methods("POST")
	api.HandleFunc("/posts/{id}/comments/{commentId}", handler.EditComment).Methods("PATCH")
	api.HandleFunc("/posts/{id}/comments/{commentId}", handler.DeleteComment).Methods("DELETE")

	api.HandleFunc("/users/{id}/posts", handler.GetUserPosts).Methods("GET")
}
