package handlers

import (
	"fmt"
	"net/http"
	"os"

	"pasteleria-api/internal/auth"
	"pasteleria-api/internal/blog"
	"pasteleria-api/internal/cart"
	"pasteleria-api/internal/contact"
	"pasteleria-api/internal/dashboard"
	"pasteleria-api/internal/orders"
	"pasteleria-api/internal/products"
	"pasteleria-api/internal/stores/kafka"
	"pasteleria-api/internal/users"
	"pasteleria-api/middleware"
	"pasteleria-api/pkg/ctxmanage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	consulapi "github.com/hashicorp/consul/api"
)

// ServiceName is the name this instance registers under in Consul.
const ServiceName = "pasteleria-api"

type Handler struct {
	u        users.Conf
	p        products.Conf
	cConf    cart.Conf
	o        orders.Conf
	b        blog.Conf
	ct       contact.Conf
	d        dashboard.Conf
	k        *kafka.Conf
	a        *auth.Keys
	client   *consulapi.Client
	validate *validator.Validate
}

type Stores struct {
	Users     users.Conf
	Products  products.Conf
	Cart      cart.Conf
	Orders    orders.Conf
	Blog      blog.Conf
	Contact   contact.Conf
	Dashboard dashboard.Conf
}

func NewHandler(s Stores, k *kafka.Conf, a *auth.Keys, client *consulapi.Client) *Handler {
	return &Handler{
		u:        s.Users,
		p:        s.Products,
		cConf:    s.Cart,
		o:        s.Orders,
		b:        s.Blog,
		ct:       s.Contact,
		d:        s.Dashboard,
		k:        k,
		a:        a,
		client:   client,
		validate: validator.New(),
	}
}

// API wires every storefront and admin route onto one gin engine.
func API(s Stores, k *kafka.Conf, a *auth.Keys, client *consulapi.Client) *gin.Engine {

	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	m := middleware.NewMid(a)
	h := NewHandler(s, k, a, client)

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.Use(m.Authentication())
		authGroup.GET("/me", h.Me)
	}

	productsGroup := r.Group("/products")
	{
		productsGroup.GET("/list", h.ListProducts)
		productsGroup.GET("/view/:id", h.GetProduct)
		productsGroup.GET("/stock/:productID", h.ProductStock)

		productsGroup.Use(m.Authentication())
		productsGroup.POST("/create", m.Authorize(h.CreateProduct, auth.RoleAdmin, auth.RoleSeller))
		productsGroup.PUT("/update/:id", m.Authorize(h.UpdateProduct, auth.RoleAdmin, auth.RoleSeller))
		productsGroup.DELETE("/delete/:id", m.Authorize(h.DeleteProduct, auth.RoleAdmin))
		productsGroup.POST("/reduce-stock", m.Authorize(h.ReduceStock, auth.RoleAdmin, auth.RoleSeller))
	}

	cartGroup := r.Group("/cart")
	{
		cartGroup.Use(m.Authentication())
		cartGroup.POST("/add-item", m.Authorize(h.AddToCart, auth.RoleClient))
		cartGroup.GET("/items", m.Authorize(h.GetActiveCartItems, auth.RoleClient))
		cartGroup.PUT("/quantity", m.Authorize(h.UpdateCartQuantity, auth.RoleClient))
		cartGroup.PUT("/message", m.Authorize(h.UpdateCartMessage, auth.RoleClient))
		cartGroup.DELETE("/item/:productID", m.Authorize(h.RemoveCartItem, auth.RoleClient))
		cartGroup.DELETE("/clear", m.Authorize(h.ClearCart, auth.RoleClient))
		cartGroup.GET("/summary", m.Authorize(h.CartSummary, auth.RoleClient))
	}

	ordersGroup := r.Group("/orders")
	{
		ordersGroup.POST("/webhook", h.Webhook)

		ordersGroup.Use(m.Authentication())
		ordersGroup.POST("/checkout", m.Authorize(h.Checkout, auth.RoleClient))
		ordersGroup.GET("/my", m.Authorize(h.MyOrders, auth.RoleClient))
		ordersGroup.GET("", m.Authorize(h.AllOrders, auth.RoleAdmin, auth.RoleSeller))
		ordersGroup.PATCH("/:id/status", m.Authorize(h.UpdateOrderStatus, auth.RoleAdmin, auth.RoleSeller))
	}

	blogsGroup := r.Group("/blogs")
	{
		blogsGroup.GET("", h.ListBlogPosts)
		blogsGroup.GET("/:id", h.GetBlogPost)

		blogsGroup.Use(m.Authentication())
		blogsGroup.POST("", m.Authorize(h.CreateBlogPost, auth.RoleAdmin))
	}

	r.POST("/contact", h.Contact)

	usersGroup := r.Group("/users")
	{
		usersGroup.Use(m.Authentication())
		usersGroup.GET("", m.Authorize(h.ListUsers, auth.RoleAdmin))
		usersGroup.PATCH("/:id", m.Authorize(h.UpdateUser, auth.RoleAdmin))
		usersGroup.DELETE("/:id", m.Authorize(h.DeleteUser, auth.RoleAdmin))
	}

	dashboardGroup := r.Group("/dashboard")
	{
		dashboardGroup.Use(m.Authentication())
		dashboardGroup.GET("/summary", m.Authorize(h.DashboardSummary, auth.RoleAdmin, auth.RoleSeller))
		dashboardGroup.GET("/status", m.Authorize(h.ServiceStatus, auth.RoleAdmin))
	}

	return r
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	fmt.Println("healthCheck handler ", traceId)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
