package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
	"github.com/Kiraws/ExploreTogoBack/internal/repository"
	"github.com/Kiraws/ExploreTogoBack/internal/serialize"
)

type NotificationHandler struct {
	Notifications *repository.NotificationRepo
	Users         *repository.UserRepo
}

func NewNotificationHandler(n *repository.NotificationRepo, u *repository.UserRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: n, Users: u}
}

type notificationCreateReq struct {
	UserID           string `json:"userId"`
	Message          string `json:"message"`
	TypeNotification string `json:"typeNotification"`
}

func notificationView(n model.Notification) map[string]any {
	return map[string]any{
		"id":               serialize.FormatID(n.ID),
		"message":          n.Message,
		"typeNotification": n.TypeNotification,
		"isRead":           n.IsRead,
		"userId":           serialize.FormatID(n.UserID),
		"createdAt":        serialize.FormatTime(n.CreatedAt),
		"updatedAt":        serialize.FormatTime(n.UpdatedAt),
	}
}

// Create sends a notification to a user. The target must exist and be
// active; the route is restricted to administrators.
func (h *NotificationHandler) Create(c echo.Context) error {
	var req notificationCreateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}
	userID, err := parseIDString(req.UserID)
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	if req.Message == "" {
		return fail(c, http.StatusBadRequest, "message requis")
	}
	typeNotification := req.TypeNotification
	if typeNotification == "" {
		typeNotification = "info"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil || !user.Active {
		return fail(c, http.StatusNotFound, "utilisateur introuvable")
	}

	id, err := h.Notifications.Create(ctx, userID, req.Message, typeNotification)
	if err != nil {
		c.Logger().Errorf("notification create: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la création de la notification")
	}
	return okMsg(c, http.StatusCreated, echo.Map{"id": serialize.FormatID(id)}, "notification envoyée")
}

// List returns the authenticated user's notifications plus the unread
// count.
func (h *NotificationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	uid := currentUserID(c)
	list, err := h.Notifications.ListByUser(ctx, uid)
	if err != nil {
		c.Logger().Errorf("notifications list: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la lecture des notifications")
	}
	unread, err := h.Notifications.CountUnread(ctx, uid)
	if err != nil {
		unread = 0
	}
	views := make([]map[string]any, 0, len(list))
	for _, n := range list {
		views = append(views, notificationView(n))
	}
	return ok(c, http.StatusOK, echo.Map{"notifications": views, "unreadCount": unread})
}

// MarkRead flips one notification to read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, currentUserID(c)); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "notification introuvable")
		}
		c.Logger().Errorf("notification mark read %d: %v", id, err)
		return fail(c, http.StatusInternalServerError, "échec de la mise à jour de la notification")
	}
	return okMsg(c, http.StatusOK, nil, "notification marquée comme lue")
}

// MarkAllRead flips every unread notification of the user.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Notifications.MarkAllRead(ctx, currentUserID(c)); err != nil {
		c.Logger().Errorf("notifications mark all read: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la mise à jour des notifications")
	}
	return okMsg(c, http.StatusOK, nil, "notifications marquées comme lues")
}

// Delete removes one notification of the user.
func (h *NotificationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, errBadID.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Notifications.Delete(ctx, id, currentUserID(c)); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "notification introuvable")
		}
		c.Logger().Errorf("notification delete %d: %v", id, err)
		return fail(c, http.StatusInternalServerError, "échec de la suppression de la notification")
	}
	return okMsg(c, http.StatusOK, nil, "notification supprimée")
}
