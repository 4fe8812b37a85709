package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"cafe-jampot/models"
	"cafe-jampot/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"deliveryOpen": s.gate.DeliveryOpen(),
		"hostels":      services.Hostels,
	})
}

func (s *Server) handleCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Categories)
}

// handleMenu returns the filtered storefront. When delivery is closed the
// whole storefront is suppressed (no sections, no filters to act on). A
// catalog fetch error degrades to an empty menu rather than a 5xx.
func (s *Server) handleMenu(c echo.Context) error {
	snap := s.gate.Snapshot()
	if !snap.DeliveryOpen {
		return c.JSON(http.StatusOK, echo.Map{
			"deliveryOpen": false,
			"sections":     []services.CategorySection{},
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	items, err := services.ListMenuItems(ctx)
	if err != nil {
		slog.Error("menu: fetch items", "err", err)
		items = nil
	}

	category := c.QueryParam("category")
	if category == "" {
		category = models.CategoryAll
	}
	veg := models.VegFilter(c.QueryParam("veg"))
	if veg == "" {
		veg = models.VegFilterAll
	}
	query := c.QueryParam("q")

	visible := services.FilterItems(items, services.MenuFilter{
		Category: category,
		Veg:      veg,
		Query:    query,
		Stock:    snap.Stock,
	})

	var sections []services.CategorySection
	if category == models.CategoryAll {
		sections = services.GroupByCategory(visible)
	} else if len(visible) > 0 {
		cat, ok := services.CategoryByID(category)
		if !ok {
			cat = models.MenuCategory{ID: category, Name: category}
		}
		sections = []services.CategorySection{{Category: cat, Items: visible}}
	}
	if sections == nil {
		sections = []services.CategorySection{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"deliveryOpen": true,
		"sections":     sections,
	})
}

func (s *Server) handleCartGet(c echo.Context) error {
	snap := s.carts.Snapshot(s.cartSessionID(c))
	return c.JSON(http.StatusOK, s.cartPayload(snap))
}

type cartAddRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleCartAdd(c echo.Context) error {
	var req cartAddRequest
	if err := c.Bind(&req); err != nil || req.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	item, err := services.GetMenuItem(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown menu item"})
		}
		slog.Error("cart: fetch item", "item_id", req.ID, "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load item, please retry"})
	}

	snap := s.gate.Snapshot()
	if !item.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "item is not available"})
	}
	if avail, ok := snap.Stock[item.ID]; ok && !avail {
		return c.JSON(http.StatusConflict, echo.Map{"error": "item is out of stock"})
	}

	cart := s.carts.Add(s.cartSessionID(c), *item)
	return c.JSON(http.StatusOK, s.cartPayload(cart))
}

type cartUpdateRequest struct {
	Qty int `json:"qty"`
}

func (s *Server) handleCartUpdate(c echo.Context) error {
	var req cartUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quantity"})
	}
	cart := s.carts.UpdateQuantity(s.cartSessionID(c), c.Param("id"), req.Qty)
	return c.JSON(http.StatusOK, s.cartPayload(cart))
}

func (s *Server) handleCartRemove(c echo.Context) error {
	cart := s.carts.Remove(s.cartSessionID(c), c.Param("id"))
	return c.JSON(http.StatusOK, s.cartPayload(cart))
}

func (s *Server) handleCartClear(c echo.Context) error {
	s.carts.Clear(s.cartSessionID(c))
	return c.JSON(http.StatusOK, s.cartPayload(services.CartSnapshot{Items: []services.CartLine{}}))
}

func (s *Server) cartPayload(snap services.CartSnapshot) echo.Map {
	return echo.Map{
		"items":      snap.Items,
		"totalItems": snap.TotalItems,
		"totalPrice": snap.TotalPrice,
		"grandTotal": s.flow.GrandTotal(snap.TotalPrice),
	}
}

func (s *Server) handleOrderSubmit(c echo.Context) error {
	var in services.OrderInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	var userID *string
	if sess, err := services.GetSession(c.Request().Context(), authToken(c)); err == nil {
		userID = &sess.UserID
	}

	result, err := s.flow.Submit(c.Request().Context(), s.cartSessionID(c), in, userID)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Msg, "field": ve.Field})
		case errors.Is(err, services.ErrDeliveryClosed):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "delivery is closed"})
		case errors.Is(err, services.ErrEmptyCart):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
		case errors.Is(err, services.ErrSubmitInFlight):
			return c.JSON(http.StatusConflict, echo.Map{"error": "order already being submitted"})
		default:
			slog.Error("order: submit", "err", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to place order, please retry"})
		}
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleAds(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	ads, err := services.ListActiveAds(ctx)
	if err != nil {
		slog.Error("ads: fetch", "err", err)
		ads = nil
	}
	if ads == nil {
		ads = []models.Advertisement{}
	}
	return c.JSON(http.StatusOK, ads)
}

type feedbackRequest struct {
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

func (s *Server) handleFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), fetchTimeout)
	defer cancel()
	id, err := services.SaveFeedback(ctx, req.Name, req.Rating, req.Comments)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Msg, "field": ve.Field})
		}
		slog.Error("feedback: save", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to save feedback, please retry"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}
