// Package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service
// methods, and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/foodrescue/coordination-service/internal/apperrors"
	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/foodrescue/coordination-service/internal/service"
	"github.com/foodrescue/coordination-service/internal/validation"
	"github.com/foodrescue/coordination-service/pkg/logger/sl"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the dependencies for the HTTP server, including the logger and
// service interfaces.
type Server struct {
	log                 *slog.Logger
	donationService     service.DonationService
	taskService         service.TaskService
	ratingService       service.RatingService
	userService         service.UserService
	notificationService service.NotificationService
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	ds service.DonationService,
	ts service.TaskService,
	rs service.RatingService,
	us service.UserService,
	ns service.NotificationService,
) *Server {
	return &Server{
		log:                 log,
		donationService:     ds,
		taskService:         ts,
		ratingService:       rs,
		userService:         us,
		notificationService: ns,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/donations", func(r chi.Router) {
		r.Post("/", s.createDonation)
		r.Get("/available", s.listAvailableDonations)
		r.Get("/{id}", s.getDonation)
		r.Get("/{id}/ratings", s.listDonationRatings)
		r.Post("/{id}/accept", s.acceptDonation)
		r.Post("/{id}/ride", s.acceptRide)
		r.Post("/{id}/delivered", s.markDonationDelivered)
		r.Post("/{id}/cancel", s.cancelDonation)
	})

	mux.Route("/tasks", func(r chi.Router) {
		r.Get("/available", s.listAvailableTasks)
		r.Get("/{id}", s.getTask)
		r.Post("/{id}/accept", s.acceptTask)
		r.Post("/{id}/reject", s.rejectTask)
		r.Post("/{id}/delivered", s.markTaskDelivered)
	})

	mux.Post("/ratings", s.submitRating)

	mux.Get("/donors/{id}/donations", s.listDonorDonations)
	mux.Get("/ngos/{id}/donations", s.listNGODonations)
	mux.Get("/volunteers/{id}/tasks", s.listVolunteerTasks)

	mux.Route("/users", func(r chi.Router) {
		r.Get("/{id}", s.getUser)
		r.Get("/{id}/notifications", s.listNotifications)
		r.Post("/{id}/verify", s.setUserVerified)
		r.Post("/set-active", s.setUserActive)
	})

	mux.Get("/admin/pending-users", s.listPendingUsers)
	mux.Post("/notifications/{id}/read", s.markNotificationRead)

	return mux
}

func (s *Server) createDonation(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.createDonation"

	var req createDonationRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	food := domain.FoodDetails{
		Category:     req.Food.Category,
		Name:         req.Food.Name,
		Quantity:     req.Food.Quantity,
		Unit:         req.Food.Unit,
		ExpiryTime:   req.Food.ExpiryTime,
		DietaryInfo:  req.Food.DietaryInfo,
		Instructions: req.Food.Instructions,
	}
	loc := domain.Location{
		Address:   req.Location.Address,
		City:      req.Location.City,
		Latitude:  req.Location.Latitude,
		Longitude: req.Location.Longitude,
	}

	donation, err := s.donationService.CreateDonation(r.Context(), req.DonorID, food, loc)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]donationResponse{"donation": toDonationResponse(donation)})
}

func (s *Server) getDonation(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getDonation"

	donation, err := s.donationService.GetDonation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]donationResponse{"donation": toDonationResponse(donation)})
}

func (s *Server) listAvailableDonations(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listAvailableDonations"

	donations, err := s.donationService.ListAvailable(r.Context())
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]donationResponse{"donations": toDonationResponses(donations)})
}

func (s *Server) listDonorDonations(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listDonorDonations"

	donations, err := s.donationService.ListByDonor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]donationResponse{"donations": toDonationResponses(donations)})
}

func (s *Server) listNGODonations(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listNGODonations"

	donations, err := s.donationService.ListByNGO(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]donationResponse{"donations": toDonationResponses(donations)})
}

func (s *Server) acceptDonation(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.acceptDonation"

	var req acceptDonationRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	donation, err := s.donationService.AcceptDonation(r.Context(), chi.URLParam(r, "id"), req.NGOID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]donationResponse{"donation": toDonationResponse(donation)})
}

func (s *Server) acceptRide(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.acceptRide"

	var req acceptDonationRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	donation, err := s.donationService.AcceptRide(r.Context(), chi.URLParam(r, "id"), req.NGOID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]donationResponse{"donation": toDonationResponse(donation)})
}

func (s *Server) markDonationDelivered(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.markDonationDelivered"

	var req acceptDonationRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	donation, err := s.donationService.MarkDonationDelivered(r.Context(), chi.URLParam(r, "id"), req.NGOID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]donationResponse{"donation": toDonationResponse(donation)})
}

func (s *Server) cancelDonation(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.cancelDonation"

	var req cancelDonationRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	donation, err := s.donationService.CancelDonation(r.Context(), chi.URLParam(r, "id"), req.ActorID, req.Reason)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]donationResponse{"donation": toDonationResponse(donation)})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getTask"

	task, err := s.taskService.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]taskResponse{"task": toTaskResponse(task)})
}

func (s *Server) acceptTask(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.acceptTask"

	var req taskActionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	task, err := s.taskService.AcceptTask(r.Context(), chi.URLParam(r, "id"), req.VolunteerID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]taskResponse{"task": toTaskResponse(task)})
}

func (s *Server) rejectTask(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.rejectTask"

	var req taskActionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	task, err := s.taskService.RejectTask(r.Context(), chi.URLParam(r, "id"), req.VolunteerID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]taskResponse{"task": toTaskResponse(task)})
}

func (s *Server) markTaskDelivered(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.markTaskDelivered"

	var req taskActionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	task, err := s.taskService.MarkTaskDelivered(r.Context(), chi.URLParam(r, "id"), req.VolunteerID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]taskResponse{"task": toTaskResponse(task)})
}

func (s *Server) listVolunteerTasks(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listVolunteerTasks"

	tasks, err := s.taskService.ListByVolunteer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]taskResponse{"tasks": toTaskResponses(tasks)})
}

func (s *Server) listAvailableTasks(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listAvailableTasks"

	tasks, err := s.taskService.ListAvailable(r.Context())
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]taskResponse{"tasks": toTaskResponses(tasks)})
}

func (s *Server) submitRating(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.submitRating"

	var req submitRatingRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	rating, err := s.ratingService.SubmitRating(r.Context(), req.DonationID, req.RatedBy, req.Rating, req.Comment)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]ratingResponse{"rating": toRatingResponse(rating)})
}

func (s *Server) listDonationRatings(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listDonationRatings"

	ratings, err := s.ratingService.ListByDonation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]ratingResponse{"ratings": toRatingResponses(ratings)})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getUser"

	user, err := s.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(user)})
}

func (s *Server) setUserVerified(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.setUserVerified"

	var req setUserVerifiedRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	user, err := s.userService.SetVerified(r.Context(), chi.URLParam(r, "id"), req.IsVerified)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(user)})
}

func (s *Server) setUserActive(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.setUserActive"

	var req setUserActiveRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	user, err := s.userService.SetActive(r.Context(), req.UserID, req.IsActive)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(user)})
}

func (s *Server) listPendingUsers(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listPendingUsers"

	users, err := s.userService.GetPendingUsers(r.Context())
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]userResponse{"users": toUserResponses(users)})
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listNotifications"

	notifications, err := s.notificationService.ListByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]notificationResponse{"notifications": toNotificationResponses(notifications)})
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.markNotificationRead"

	if err := s.notificationService.MarkAsRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// decodeAndValidate is a helper that deserializes a JSON request body into a struct
// and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it to a user-friendly HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var (
		transitionErr   *apperrors.InvalidTransitionError
		alreadyRatedErr *apperrors.AlreadyRatedError
		validationErr   *validation.ValidationError
	)

	switch {
	case errors.As(err, &validationErr):
		wrappedErr := fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error())
		s.respondError(w, http.StatusBadRequest, wrappedErr.Error())
	case errors.Is(err, apperrors.ErrValidation):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "operation not permitted for this user")
	case errors.As(err, &alreadyRatedErr):
		s.respondError(w, http.StatusConflict, alreadyRatedErr.Error())
	case errors.As(err, &transitionErr):
		s.respondError(w, http.StatusConflict, transitionErr.Error())
	case errors.Is(err, apperrors.ErrNoVolunteerAvailable):
		s.respondError(w, http.StatusConflict, apperrors.ErrNoVolunteerAvailable.Error())
	case errors.Is(err, apperrors.ErrInvalidState):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrAlreadyExists):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
