package handlers

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"

	"foodbridge-api/internal/core/domain"
	"foodbridge-api/internal/core/services"
	"foodbridge-api/internal/pkg/pagination"
	"foodbridge-api/internal/pkg/response"
	"foodbridge-api/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// DonationHandler handles donation endpoints
type DonationHandler struct {
	donationService *services.DonationService
	maxUploadBytes  int64
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donationService *services.DonationService, maxUploadBytes int64) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// StatusRequest asks for a lifecycle transition
type StatusRequest struct {
	Status string `json:"status" validate:"required,status"`
}

// Create publishes a new donation
// @Summary Create donation
// @Description Publish surplus food. Expiry is derived from the food type when omitted.
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateDonationInput true "Donation"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /donations [post]
func (h *DonationHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateDonationInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	d, err := h.donationService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err, "Failed to create donation")
	}

	return response.Created(c, "Donation created successfully", services.NewDonationResponse(d))
}

// List returns the donation feed
// @Summary List donations
// @Tags Donations
// @Produce json
// @Param status query string false "Lifecycle status" default(AVAILABLE)
// @Param food_type query string false "Food type"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /donations [get]
func (h *DonationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	list, total, err := h.donationService.List(c.Context(), &services.ListDonationsInput{
		Status:   strings.ToUpper(c.Query("status")),
		FoodType: strings.ToLower(c.Query("food_type")),
		Offset:   params.Offset,
		Limit:    params.Limit,
	})
	if err != nil {
		return respondError(c, err, "Failed to list donations")
	}

	return response.Paginated(c, "Donations retrieved successfully",
		services.NewDonationResponses(list), pagination.GetMeta(params, total))
}

// Nearby returns available donations around a point
// @Summary Nearby donations
// @Tags Donations
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius_km query number false "Search radius in km" default(10)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /donations/nearby [get]
func (h *DonationHandler) Nearby(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return response.BadRequest(c, "lat and lng are required")
	}

	radius := services.DefaultNearbyRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return response.BadRequest(c, "Invalid radius_km")
		}
		radius = r
	}

	found, err := h.donationService.Nearby(c.Context(), lat, lng, radius)
	if err != nil {
		return respondError(c, err, "Failed to search donations")
	}

	out := make([]*services.DonationResponse, 0, len(found))
	for _, n := range found {
		r := services.NewDonationResponse(n.Donation)
		dist := n.DistanceKm
		r.DistanceKm = &dist
		out = append(out, r)
	}

	return response.Success(c, "Donations retrieved successfully", out)
}

// Mine lists donations the caller donated, claimed or transported
// @Summary My donations
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /donations/mine [get]
func (h *DonationHandler) Mine(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	list, total, err := h.donationService.Mine(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return respondError(c, err, "Failed to list donations")
	}

	return response.Paginated(c, "Donations retrieved successfully",
		services.NewDonationResponses(list), pagination.GetMeta(params, total))
}

// Get returns one donation
// @Summary Get donation
// @Tags Donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /donations/{id} [get]
func (h *DonationHandler) Get(c *fiber.Ctx) error {
	d, err := h.donationService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get donation")
	}
	return response.Success(c, "Donation retrieved successfully", services.NewDonationResponse(d))
}

// Update edits an available donation
// @Summary Update donation
// @Description Only the donor may edit, and only while the donation is AVAILABLE
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Param body body services.UpdateDonationInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /donations/{id} [put]
func (h *DonationHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.UpdateDonationInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	d, err := h.donationService.Update(c.Context(), c.Params("id"), userID, &req)
	if err != nil {
		return respondError(c, err, "Failed to update donation")
	}

	return response.Success(c, "Donation updated successfully", services.NewDonationResponse(d))
}

// Claim reserves a donation for the calling NGO
// @Summary Claim donation
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donations/{id}/claim [post]
func (h *DonationHandler) Claim(c *fiber.Ctx) error {
	return h.step(c, "Donation claimed successfully", h.donationService.Claim)
}

// PickUp records the calling volunteer collecting a donation
// @Summary Pick up donation
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donations/{id}/pickup [post]
func (h *DonationHandler) PickUp(c *fiber.Ctx) error {
	return h.step(c, "Donation picked up successfully", h.donationService.PickUp)
}

// Deliver records delivery by the transporting volunteer
// @Summary Deliver donation
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donations/{id}/deliver [post]
func (h *DonationHandler) Deliver(c *fiber.Ctx) error {
	return h.step(c, "Donation delivered successfully", h.donationService.Deliver)
}

// UpdateStatus moves a donation to the requested status; admins override
// @Summary Change donation status
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Param body body StatusRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donations/{id}/status [put]
func (h *DonationHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Status = strings.ToUpper(req.Status)
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	d, err := h.donationService.TransitionStatus(c.Context(), c.Params("id"), userID, domain.DonationStatus(req.Status))
	if err != nil {
		return respondError(c, err, "Failed to change status")
	}

	return response.Success(c, "Donation status updated successfully", services.NewDonationResponse(d))
}

// UploadImages attaches photos to an available donation
// @Summary Upload donation images
// @Tags Donations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Param images formData file true "Image files"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /donations/{id}/images [post]
func (h *DonationHandler) UploadImages(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Invalid multipart form")
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		return response.BadRequest(c, "At least one image is required")
	}

	uploads := make([]services.ImageUpload, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range headers {
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return response.BadRequest(c, fh.Filename+" is not an image")
		}
		if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
			return response.BadRequest(c, fh.Filename+" is too large")
		}

		f, err := fh.Open()
		if err != nil {
			return response.BadRequest(c, "Failed to read "+fh.Filename)
		}
		opened = append(opened, f)
		uploads = append(uploads, services.ImageUpload{
			FileName:    fh.Filename,
			ContentType: contentType,
			Reader:      f,
		})
	}

	d, err := h.donationService.AddImages(c.Context(), c.Params("id"), userID, uploads)
	if err != nil {
		return respondError(c, err, "Failed to upload images")
	}

	return response.Success(c, "Images uploaded successfully", services.NewDonationResponse(d))
}

// FoodTypes returns the shelf-life table
// @Summary Food types
// @Description Shelf life and high-risk flag per food type
// @Tags Donations
// @Produce json
// @Success 200 {object} response.Response
// @Router /food-types [get]
func (h *DonationHandler) FoodTypes(c *fiber.Ctx) error {
	return response.Success(c, "Food types retrieved successfully", fiber.Map{
		"food_types":            domain.FoodTypeTable(),
		"min_safe_window_hours": int(domain.MinSafeWindow.Hours()),
	})
}

type stepFunc func(ctx context.Context, id string, actorID uint) (*domain.Donation, error)

// step runs a single lifecycle action for the caller
func (h *DonationHandler) step(c *fiber.Ctx, message string, fn stepFunc) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	d, err := fn(c.Context(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, err, "Failed to update donation")
	}

	return response.Success(c, message, services.NewDonationResponse(d))
}
