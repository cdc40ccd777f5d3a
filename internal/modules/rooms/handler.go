package rooms

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hoteldesk/internal/pkg/response"
	"hoteldesk/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rooms := rg.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.POST("", h.AddRoom)
		rooms.GET("/:number", h.GetRoom)
		rooms.PUT("/:number", h.UpdateRoom)
		rooms.DELETE("/:number", h.RemoveRoom)
		rooms.PUT("/:number/status", h.UpdateStatus)
		rooms.PUT("/:number/amenities", h.UpdateAmenities)
		rooms.POST("/:number/book", h.BookRoom)
		rooms.POST("/:number/unbook", h.UnbookRoom)
		rooms.POST("/:number/checkin", h.CheckIn)
		rooms.POST("/:number/checkout", h.CheckOut)
		rooms.PUT("/:number/booking", h.ModifyBooking)
	}

	rg.POST("/maintenance/reconcile", h.Reconcile)
}

// ListRooms returns every room, or only available or booked ones.
//
// Endpoint: GET /api/v1/rooms?status=available|booked
func (h *Handler) ListRooms(c *gin.Context) {
	list, err := h.service.ListRooms(c.Query("status"))
	if err != nil {
		WriteError(c, err)
		return
	}
	out := make([]RoomResponse, 0, len(list))
	for _, d := range list {
		out = append(out, NewRoomResponse(d))
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": out, "count": len(out)})
}

func (h *Handler) GetRoom(c *gin.Context) {
	d, err := h.service.GetRoom(c.Param("number"))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": NewRoomResponse(d)})
}

// AddRoom creates a room. Either type or roomType must name the variant.
//
// Endpoint: POST /api/v1/rooms
func (h *Handler) AddRoom(c *gin.Context) {
	var req AddRoomRequest
	if !bind(c, &req) {
		return
	}
	room, err := req.ToRoom()
	if err != nil {
		WriteError(c, err)
		return
	}
	d, err := h.service.AddRoom(room)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": NewRoomResponse(d)})
}

// UpdateRoom changes the price or type of an unbooked room.
func (h *Handler) UpdateRoom(c *gin.Context) {
	var req UpdateRoomRequest
	if !bind(c, &req) {
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		WriteError(c, err)
		return
	}
	d, err := h.service.UpdateRoom(c.Param("number"), patch)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": NewRoomResponse(d)})
}

func (h *Handler) RemoveRoom(c *gin.Context) {
	number := c.Param("number")
	if err := h.service.RemoveRoom(number); err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"number": number, "removed": true})
}

// UpdateStatus sets the housekeeping status, optionally with notes.
//
// Endpoint: PUT /api/v1/rooms/:number/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.UpdateRoom(c.Param("number"), req.ToPatch())
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": NewRoomResponse(d)})
}

func (h *Handler) UpdateAmenities(c *gin.Context) {
	var req UpdateAmenitiesRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.UpdateRoom(c.Param("number"), patchAmenities(req.Amenities))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": NewRoomResponse(d)})
}

// BookRoom books an available room and returns the confirmation number.
//
// Endpoint: POST /api/v1/rooms/:number/book
func (h *Handler) BookRoom(c *gin.Context) {
	var req BookRoomRequest
	if !bind(c, &req) {
		return
	}
	number := c.Param("number")
	b, err := h.service.BookRoom(number, req.ToBooking())
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": NewBookingResponse(number, b)})
}

func (h *Handler) UnbookRoom(c *gin.Context) {
	number := c.Param("number")
	if err := h.service.UnbookRoom(number); err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"number": number, "unbooked": true})
}

func (h *Handler) CheckIn(c *gin.Context) {
	number := c.Param("number")
	b, err := h.service.CheckIn(number)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": NewBookingResponse(number, b)})
}

// CheckOut returns the final booking record; the room is free afterwards.
func (h *Handler) CheckOut(c *gin.Context) {
	number := c.Param("number")
	b, err := h.service.CheckOut(number)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": NewBookingResponse(number, b)})
}

// ModifyBooking replaces only the fields present in the body.
//
// Endpoint: PUT /api/v1/rooms/:number/booking
func (h *Handler) ModifyBooking(c *gin.Context) {
	var req ModifyBookingRequest
	if !bind(c, &req) {
		return
	}
	number := c.Param("number")
	b, err := h.service.ModifyBooking(number, req.ToPatch())
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": NewBookingResponse(number, b)})
}

func (h *Handler) Reconcile(c *gin.Context) {
	report, err := h.service.Reconcile()
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewReconcileResponse(report))
}

// bind decodes the JSON body and runs struct validation. It writes the
// 400 response itself and reports whether the handler may continue.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return false
	}
	return true
}
