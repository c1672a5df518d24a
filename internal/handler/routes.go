package handler

import (
	"net/http"
)

const apiPrefix = "/api/v1"

// Routes bundles the handlers mounted on the mux.
// Token is nil when tokens come from an external issuer.
type Routes struct {
	Categories *CategoryHandler
	Posts      *PostHandler
	Comments   *CommentHandler
	Users      *UserHandler
	Token      *TokenHandler

	// TokenLimit wraps the token endpoint; nil means unlimited
	TokenLimit func(http.Handler) http.Handler
}

// Register mounts every route on mux (Go 1.22+ patterns).
// Collection and item paths accept an optional trailing slash.
func (rt *Routes) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", HealthCheck)

	resource(mux, "categories", crud{
		list:   rt.Categories.ListCategories,
		create: rt.Categories.CreateCategory,
		get:    rt.Categories.GetCategory,
		update: rt.Categories.UpdateCategory,
		delete: rt.Categories.DeleteCategory,
	})
	resource(mux, "posts", crud{
		list:   rt.Posts.ListPosts,
		create: rt.Posts.CreatePost,
		get:    rt.Posts.GetPost,
		update: rt.Posts.UpdatePost,
		delete: rt.Posts.DeletePost,
	})
	resource(mux, "comments", crud{
		list:   rt.Comments.ListComments,
		create: rt.Comments.CreateComment,
		get:    rt.Comments.GetComment,
		update: rt.Comments.UpdateComment,
		delete: rt.Comments.DeleteComment,
	})
	resource(mux, "users", crud{
		list:   rt.Users.ListUsers,
		create: rt.Users.CreateUser,
		get:    rt.Users.GetUser,
		update: rt.Users.UpdateUser,
		delete: rt.Users.DeleteUser,
	})

	// Nested comment listing
	mux.HandleFunc("GET "+apiPrefix+"/posts/{id}/comments", rt.Comments.ListPostComments)
	mux.HandleFunc("GET "+apiPrefix+"/posts/{id}/comments/{$}", rt.Comments.ListPostComments)

	if rt.Token != nil {
		var obtain http.Handler = http.HandlerFunc(rt.Token.ObtainToken)
		if rt.TokenLimit != nil {
			obtain = rt.TokenLimit(obtain)
		}
		mux.Handle("POST /token", obtain)
		mux.Handle("POST /token/{$}", obtain)
	}
}

type crud struct {
	list, create, get, update, delete http.HandlerFunc
}

func resource(mux *http.ServeMux, name string, h crud) {
	collection := apiPrefix + "/" + name
	item := collection + "/{id}"

	for _, path := range []string{collection, collection + "/{$}"} {
		mux.HandleFunc("GET "+path, h.list)
		mux.HandleFunc("POST "+path, h.create)
	}
	for _, path := range []string{item, item + "/{$}"} {
		mux.HandleFunc("GET "+path, h.get)
		mux.HandleFunc("PUT "+path, h.update)
		mux.HandleFunc("PATCH "+path, h.update)
		mux.HandleFunc("DELETE "+path, h.delete)
	}
}
