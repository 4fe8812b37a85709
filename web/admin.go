package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cafe-jampot/models"
	"cafe-jampot/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// handleAdminMenu returns the unfiltered catalog plus the explicit stock
// rows so staff can see and flip out-of-stock items.
func (s *Server) handleAdminMenu(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	items, err := services.ListAllMenuItems(ctx)
	if err != nil {
		slog.Error("admin: fetch menu", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load menu"})
	}
	snap := s.gate.Snapshot()
	return c.JSON(http.StatusOK, echo.Map{
		"items":        items,
		"stock":        snap.Stock,
		"deliveryOpen": snap.DeliveryOpen,
	})
}

type deliveryToggleRequest struct {
	Open bool `json:"open"`
}

func (s *Server) handleDeliveryToggle(c echo.Context) error {
	var req deliveryToggleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	if err := services.UpdateDeliveryOpen(ctx, req.Open); err != nil {
		slog.Error("admin: delivery toggle", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to update delivery status"})
	}
	// The DB trigger notifies all listeners; set locally too so this
	// process reflects the change even if the listen connection is down.
	s.gate.SetDeliveryOpen(req.Open)
	return c.JSON(http.StatusOK, echo.Map{"deliveryOpen": req.Open})
}

type stockToggleRequest struct {
	Available bool `json:"available"`
}

func (s *Server) handleStockToggle(c echo.Context) error {
	var req stockToggleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	itemID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	item, err := services.GetMenuItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown menu item"})
		}
		slog.Error("admin: fetch item", "item_id", itemID, "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load item"})
	}
	if err := services.UpsertStockStatus(ctx, item.ID, item.Name, req.Available); err != nil {
		slog.Error("admin: stock toggle", "item_id", itemID, "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to update stock status"})
	}
	s.gate.SetStock(item.ID, req.Available)
	return c.JSON(http.StatusOK, echo.Map{"itemId": item.ID, "available": req.Available})
}

func (s *Server) handleAdminOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	orders, err := services.FetchOrders(ctx)
	if err != nil {
		slog.Error("admin: fetch orders", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load orders"})
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// handleAdminStats aggregates the dashboard numbers over the requested
// date range. Dates are inclusive yyyy-mm-dd; hostel/product accept "all".
func (s *Server) handleAdminStats(c echo.Context) error {
	filter := services.StatsFilter{
		Hostel:  c.QueryParam("hostel"),
		Product: c.QueryParam("product"),
	}
	if v := c.QueryParam("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start date"})
		}
		filter.Start = t
	}
	if v := c.QueryParam("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end date"})
		}
		filter.End = t.Add(24*time.Hour - time.Nanosecond) // end of day
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	orders, err := services.FetchOrders(ctx)
	if err != nil {
		slog.Error("admin: fetch orders for stats", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats":    services.ComputeStats(orders, filter),
		"products": services.UniqueProducts(orders),
		"hostels":  services.Hostels,
	})
}

func (s *Server) handleAdminFeedback(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	fb, err := services.ListFeedback(ctx)
	if err != nil {
		slog.Error("admin: fetch feedback", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load feedback"})
	}
	if fb == nil {
		fb = []models.Feedback{}
	}
	return c.JSON(http.StatusOK, fb)
}

func (s *Server) handleAdminAds(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	ads, err := services.ListAllAds(ctx)
	if err != nil {
		slog.Error("admin: fetch ads", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load ads"})
	}
	if ads == nil {
		ads = []models.Advertisement{}
	}
	return c.JSON(http.StatusOK, ads)
}

type adToggleRequest struct {
	Active bool `json:"active"`
}

func (s *Server) handleAdToggle(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}
	var req adToggleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	if err := services.SetAdActive(ctx, id, req.Active); err != nil {
		slog.Error("admin: ad toggle", "ad_id", id, "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to update ad"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "active": req.Active})
}

func (s *Server) handleUsers(c echo.Context) error {
	users, err := services.ListUsersWithRoles(c.Request().Context())
	if err != nil {
		slog.Error("admin: list users", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load users"})
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) handlePendingUsers(c echo.Context) error {
	users, err := services.ListPendingUsers(c.Request().Context())
	if err != nil {
		slog.Error("admin: list pending users", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load users"})
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(http.StatusOK, users)
}

type grantRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) handleGrantRole(c echo.Context) error {
	var req grantRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := services.GrantRole(c.Request().Context(), c.Param("id"), req.Role); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Msg, "field": ve.Field})
		}
		slog.Error("admin: grant role", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to grant role"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (s *Server) handleRevokeRole(c echo.Context) error {
	if err := services.RevokeRoles(c.Request().Context(), c.Param("id")); err != nil {
		slog.Error("admin: revoke role", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to revoke role"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
