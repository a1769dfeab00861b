// Package routes registers the Pantry Pal REST API.
package routes

import (
	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/app/controllers"
	"github.com/pantrypal/pantrypal/app/repositories"
	"github.com/pantrypal/pantrypal/app/services"
	"github.com/pantrypal/pantrypal/pkg/ctx"
	"github.com/pantrypal/pantrypal/pkg/router"
)

// RegisterAPI mounts every resource on r. db may be nil when the routes are
// only being listed.
func RegisterAPI(r *router.Router, db *gorm.DB) {
	userRepo := repositories.NewUserRepository(db)

	users := controllers.NewUserController(userRepo)
	products := controllers.NewProductController(repositories.NewProductRepository(db))
	items := controllers.NewProductItemController(repositories.NewProductItemRepository(db))
	authCtl := controllers.NewAuthController(services.NewAuthService(userRepo))
	health := controllers.NewHealthController(db)

	r.Get("/healthz", "health", ctx.Wrap(health.Show))

	resource := func(prefix, name string, c controllers.Resource) {
		g := r.Group(prefix)
		g.Get("/", name+".index", ctx.Wrap(c.Index))
		g.Post("/", name+".store", ctx.Wrap(c.Store))
		g.Get("/{id}", name+".show", ctx.Wrap(c.Show))
		g.Patch("/{id}", name+".update", ctx.Wrap(c.Update))
		g.Delete("/{id}", name+".destroy", ctx.Wrap(c.Destroy))
	}

	resource("/users", "users", users)
	resource("/products", "products", products)
	resource("/product_items", "product_items", items)

	r.Post("/login", "auth.login", ctx.Wrap(authCtl.Login))
	r.Delete("/logout", "auth.logout", ctx.Wrap(authCtl.Logout))
	r.Get("/check_session", "auth.check_session", ctx.Wrap(authCtl.CheckSession))
}
