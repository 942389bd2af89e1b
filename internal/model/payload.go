package model

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JWTResponse is returned after a successful login.
type JWTResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Token string   `json:"token"`
	Type  string   `json:"type"`
	Roles []string `json:"roles"`
}

// RoomRequest carries the fields of a room create or update. Nil fields are
// left unchanged on update.
type RoomRequest struct {
	RoomType  *string  `json:"room_type"`
	RoomPrice *float64 `json:"room_price" validate:"omitempty,gt=0,lte=99999999.99,cents"`
	Photo     []byte   `json:"-"`
}

// BookingRequest is the payload for booking a room.
type BookingRequest struct {
	CheckInDate   Date   `json:"check_in_date" validate:"required"`
	CheckOutDate  Date   `json:"check_out_date" validate:"required"`
	GuestFullName string `json:"guest_full_name" validate:"required,max=200"`
	GuestEmail    string `json:"guest_email" validate:"required,email,max=255"`
	NumOfAdults   int    `json:"num_of_adults" validate:"gte=1"`
	NumOfChildren int    `json:"num_of_children" validate:"gte=0"`
}

// CreateRoleRequest is the payload for creating a role.
type CreateRoleRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// BookingInfo is the short form of a booking embedded in a room response.
type BookingInfo struct {
	ID               string `json:"id"`
	CheckInDate      Date   `json:"check_in_date"`
	CheckOutDate     Date   `json:"check_out_date"`
	ConfirmationCode string `json:"confirmation_code"`
}

// RoomResponse is a room as returned to clients, photo base64-encoded.
type RoomResponse struct {
	ID        string        `json:"id"`
	RoomType  string        `json:"room_type"`
	RoomPrice float64       `json:"room_price"`
	IsBooked  bool          `json:"is_booked"`
	Photo     string        `json:"photo,omitempty"`
	Bookings  []BookingInfo `json:"bookings"`
}

// BookingResponse is a booking as returned to clients.
type BookingResponse struct {
	ID               string        `json:"id"`
	CheckInDate      Date          `json:"check_in_date"`
	CheckOutDate     Date          `json:"check_out_date"`
	GuestFullName    string        `json:"guest_full_name"`
	GuestEmail       string        `json:"guest_email"`
	NumOfAdults      int           `json:"num_of_adults"`
	NumOfChildren    int           `json:"num_of_children"`
	TotalNumOfGuest  int           `json:"total_num_of_guest"`
	ConfirmationCode string        `json:"confirmation_code"`
	Room             *RoomResponse `json:"room,omitempty"`
}

// BookingConfirmation is returned after a successful booking.
type BookingConfirmation struct {
	Message          string `json:"message"`
	BookingID        string `json:"booking_id"`
	ConfirmationCode string `json:"confirmation_code"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
