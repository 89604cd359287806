package handlers

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	Requests *RequestHandler
	Bookings *BookingHandler
	Slots    *SlotHandler
	Trainers *TrainerHandler
	Clients  *ClientHandler
}
