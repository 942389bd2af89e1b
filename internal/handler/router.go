package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/auth"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/service"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Rooms       *service.RoomService
	Bookings    *service.BookingService
	Users       *service.UserService
	Roles       *service.RoleService
	Tokens      *auth.Tokens
	Policy      *auth.Policy
	Log         logrus.FieldLogger
	CORSOrigins []string
}

// NewRouter builds the HTTP API.
func NewRouter(d Deps) http.Handler {
	rooms := NewRoomHandler(d.Rooms, d.Bookings)
	bookings := NewBookingHandler(d.Bookings, d.Policy)
	users := NewUserHandler(d.Users, d.Policy)
	roles := NewRoleHandler(d.Roles)

	authn := Authenticate(d.Tokens)
	can := func(obj, act string) func(http.Handler) http.Handler {
		return Authorize(d.Policy, obj, act)
	}

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(d.Log))           // structured access log
	r.Use(CORS(d.CORSOrigins))

	r.Get("/health", HealthCheck)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register-user", users.Register)
		r.Post("/login", users.Login)
	})

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", rooms.ListRooms)
		r.Get("/types", rooms.RoomTypes)
		r.Get("/available", rooms.AvailableRooms)
		r.Get("/{id}", rooms.GetRoom)
		r.Get("/{id}/photo", rooms.RoomPhoto)
		r.Post("/{id}/bookings", rooms.BookRoom)
		r.With(authn, can(auth.ResourceBooking, auth.ActionList)).Get("/{id}/bookings", rooms.RoomBookings)

		r.Group(func(r chi.Router) {
			r.Use(authn, can(auth.ResourceRoom, auth.ActionWrite))
			r.Post("/", rooms.AddRoom)
			r.Put("/{id}", rooms.UpdateRoom)
			r.Delete("/{id}", rooms.DeleteRoom)
		})
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/confirmation/{code}", bookings.ByConfirmationCode)
		r.Delete("/{id}", bookings.CancelBooking)
		r.With(authn).Get("/user/{email}", bookings.ByGuestEmail)
		r.With(authn, can(auth.ResourceBooking, auth.ActionList)).Get("/", bookings.ListBookings)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authn)
		r.With(can(auth.ResourceUser, auth.ActionList)).Get("/", users.ListUsers)
		r.With(can(auth.ResourceUser, auth.ActionRead)).Get("/{email}", users.GetUser)
		r.Delete("/{email}", users.DeleteUser)
	})

	r.Route("/roles", func(r chi.Router) {
		r.Use(authn, can(auth.ResourceRole, auth.ActionManage))
		r.Get("/", roles.ListRoles)
		r.Post("/", roles.CreateRole)
		r.Delete("/{id}", roles.DeleteRole)
		r.Post("/{id}/users/remove-all", roles.RemoveAllUsers)
		r.Post("/{id}/users/{userID}", roles.AssignUser)
		r.Delete("/{id}/users/{userID}", roles.RemoveUser)
	})

	return r
}
