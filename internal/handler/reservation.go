package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/middleware"
	"github.com/Kiraws/ExploreTogoBack/internal/model"
	"github.com/Kiraws/ExploreTogoBack/internal/queue"
	"github.com/Kiraws/ExploreTogoBack/internal/repository"
	"github.com/Kiraws/ExploreTogoBack/internal/serialize"
	queue_publisher "github.com/Kiraws/ExploreTogoBack/internal/service"
)

// ReservationHandler bundles dependencies for reservation endpoints.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Lieux        *repository.LieuRepo
	// PublishEvents toggles RabbitMQ publishing; a broker outage only
	// costs the notification, never the reservation.
	PublishEvents bool
}

func NewReservationHandler(r *repository.ReservationRepo, l *repository.LieuRepo, publish bool) *ReservationHandler {
	return &ReservationHandler{Reservations: r, Lieux: l, PublishEvents: publish}
}

type reservationReq struct {
	LieuID           string  `json:"lieuId"`
	DateReservation  string  `json:"dateReservation"`
	HeureReservation string  `json:"heureReservation"`
	NbPlace          int     `json:"nbPlace"`
	UserContact      *string `json:"userContact"`
}

type statusReq struct {
	Status string `json:"status"`
}

func reservationView(r model.Reservation) map[string]any {
	v := map[string]any{
		"id":               serialize.FormatID(r.ID),
		"status":           r.Status,
		"dateReservation":  r.DateReservation,
		"heureReservation": r.HeureReservation,
		"nbPlace":          r.NbPlace,
		"userId":           serialize.FormatID(r.UserID),
		"lieuId":           serialize.FormatID(r.LieuID),
		"createdAt":        serialize.FormatTime(r.CreatedAt),
		"updatedAt":        serialize.FormatTime(r.UpdatedAt),
	}
	if r.UserContact != nil {
		v["userContact"] = *r.UserContact
	}
	return v
}

func (h *ReservationHandler) publish(r model.Reservation, lieuNom string) {
	if !h.PublishEvents {
		return
	}
	ev := queue.ReservationEvent{
		ReservationID:    r.ID,
		UserID:           r.UserID,
		LieuID:           r.LieuID,
		LieuNom:          lieuNom,
		Status:           r.Status,
		DateReservation:  r.DateReservation,
		HeureReservation: r.HeureReservation,
		NbPlace:          r.NbPlace,
		OccurredAt:       serialize.FormatTime(time.Now()),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationEvent(ctx, ev)
	}()
}

// Create books a slot at an active venue for the authenticated user.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}
	lieuID, err := parseIDString(req.LieuID)
	if err != nil {
		return fail(c, http.StatusBadRequest, "identifiant de lieu invalide")
	}
	if req.DateReservation == "" || req.HeureReservation == "" {
		return fail(c, http.StatusBadRequest, "date et heure de réservation requises")
	}
	if req.NbPlace < 1 {
		return fail(c, http.StatusBadRequest, "le nombre de places doit être au moins 1")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	active, err := h.Lieux.ExistsActive(ctx, lieuID)
	if err != nil {
		c.Logger().Errorf("reservation create: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la création de la réservation")
	}
	if !active {
		return fail(c, http.StatusNotFound, "lieu introuvable ou inactif")
	}

	res, err := h.Reservations.Create(ctx, &model.Reservation{
		DateReservation:  req.DateReservation,
		HeureReservation: req.HeureReservation,
		NbPlace:          req.NbPlace,
		UserContact:      req.UserContact,
		UserID:           currentUserID(c),
		LieuID:           lieuID,
	})
	if err != nil {
		c.Logger().Errorf("reservation create: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la création de la réservation")
	}

	nom, _ := h.Lieux.EtabNom(ctx, lieuID)
	h.publish(res, nom)
	return okMsg(c, http.StatusCreated, reservationView(res), "réservation enregistrée")
}

// ListMine returns the authenticated user's reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	list, err := h.Reservations.ListByUser(ctx, currentUserID(c))
	if err != nil {
		c.Logger().Errorf("reservation list: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture des réservations")
	}
	views := make([]map[string]any, 0, len(list))
	for _, r := range list {
		views = append(views, reservationView(r))
	}
	return ok(c, http.StatusOK, views)
}

// ListByLieu returns a venue's reservations. Restricted by the router
// to gerant and admin roles.
func (h *ReservationHandler) ListByLieu(c echo.Context) error {
	lieuID, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	list, err := h.Reservations.ListByLieu(ctx, lieuID)
	if err != nil {
		c.Logger().Errorf("reservation list by lieu: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture des réservations")
	}
	views := make([]map[string]any, 0, len(list))
	for _, r := range list {
		views = append(views, reservationView(r))
	}
	return ok(c, http.StatusOK, views)
}

// UpdateStatus confirms or cancels a reservation. A plain user may
// only cancel their own; gerant and admin may set any status.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}
	switch req.Status {
	case model.ReservationPending, model.ReservationConfirmed, model.ReservationCancelled:
	default:
		return fail(c, http.StatusBadRequest, "statut de réservation invalide")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	existing, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "réservation introuvable")
		}
		return fail(c, http.StatusInternalServerError, "échec de la lecture de la réservation")
	}

	role := currentRole(c)
	if role == middleware.RoleUtilisateur {
		if existing.UserID != currentUserID(c) || req.Status != model.ReservationCancelled {
			return fail(c, http.StatusForbidden, "accès refusé")
		}
	}

	res, err := h.Reservations.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		c.Logger().Errorf("reservation update %d: %v", id, err)
		return fail(c, http.StatusInternalServerError, "échec de la mise à jour de la réservation")
	}

	nom, _ := h.Lieux.EtabNom(ctx, res.LieuID)
	h.publish(res, nom)
	return okMsg(c, http.StatusOK, reservationView(res), "réservation mise à jour")
}

// Delete removes a reservation. Users may delete their own; admin any.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	existing, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "réservation introuvable")
		}
		return fail(c, http.StatusInternalServerError, "échec de la lecture de la réservation")
	}
	if currentRole(c) != middleware.RoleAdmin && existing.UserID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "accès refusé")
	}

	if err := h.Reservations.Delete(ctx, id); err != nil {
		c.Logger().Errorf("reservation delete %d: %v", id, err)
		return fail(c, http.StatusInternalServerError, "échec de la suppression de la réservation")
	}
	return okMsg(c, http.StatusOK, nil, "réservation supprimée")
}
