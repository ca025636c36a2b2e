package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"finbook/models"
	"finbook/pkg/ledger"
	"finbook/pkg/money"
	"finbook/pkg/token"
	"finbook/pkg/users"
)

// server wires the HTTP layer to the services. All collaborators arrive
// through the constructor; there is no package-level state.
type server struct {
	users  *users.Service
	ledger *ledger.Service
	issuer *token.Issuer
}

func newServer(userSvc *users.Service, ledgerSvc *ledger.Service, issuer *token.Issuer) *server {
	return &server{users: userSvc, ledger: ledgerSvc, issuer: issuer}
}

func (s *server) setupRoutes(r *gin.Engine) {
	r.Use(requestIDMiddleware())

	api := r.Group("/api")
	api.POST("/users", s.registerHandler)
	api.POST("/users/authenticate", s.authenticateHandler)

	authed := api.Group("")
	authed.Use(s.authMiddleware())
	authed.GET("/users/:id/balance", s.balanceHandler)
	authed.POST("/entries", s.createEntryHandler)
	authed.GET("/entries", s.searchEntriesHandler)
	authed.PUT("/entries/:id", s.updateEntryHandler)
	authed.PUT("/entries/:id/status", s.updateStatusHandler)
	authed.DELETE("/entries/:id", s.deleteEntryHandler)
}

// requestIDMiddleware tags every request with an id so log lines from one
// request can be correlated.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// authMiddleware validates the bearer token and resolves the current user
// from the token subject.
func (s *server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}
		claims, err := s.issuer.Claims(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		user, err := s.users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("currentUser", user)
		c.Next()
	}
}

type entryResponse struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	UserID      uint   `json:"user_id"`
	Registered  string `json:"registered_at"`
}

func toEntryResponse(e *models.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Description: e.Description,
		Month:       e.Month,
		Year:        e.Year,
		Amount:      money.FormatCents(e.AmountCents),
		AmountCents: e.AmountCents,
		Type:        string(e.Type),
		Status:      string(e.Status),
		UserID:      e.UserID,
		Registered:  e.CreatedAt.Format("2006-01-02"),
	}
}

func (s *server) registerHandler(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("register failed", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *server) authenticateHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		slog.Error("authenticate failed", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}
	signed, err := s.issuer.Issue(user)
	if err != nil {
		slog.Error("token issue failed", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": user.Name, "token": signed})
}

func (s *server) balanceHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := s.users.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if user == nil {
		c.Status(http.StatusNotFound)
		return
	}
	cents, err := s.ledger.BalanceForUser(c.Request.Context(), id)
	if err != nil {
		slog.Error("balance failed", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "balance query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": money.FormatCents(cents), "balance_cents": cents})
}

type entryRequest struct {
	Description string `json:"description"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	UserID      uint   `json:"user_id"`
}

// buildEntry maps a request body onto an entry. Malformed amount or type
// strings leave the zero value in place so the validation chain reports
// them in its fixed order.
func (s *server) buildEntry(c *gin.Context, req entryRequest) (*models.Entry, bool) {
	owner, err := s.users.FindByID(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return nil, false
	}
	if req.UserID != 0 && owner == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no user found for the given id"})
		return nil, false
	}
	entry := &models.Entry{
		Description: req.Description,
		Month:       req.Month,
		Year:        req.Year,
		UserID:      req.UserID,
	}
	if cents, err := money.ParseCents(req.Amount); err == nil {
		entry.AmountCents = cents
	}
	if t, err := models.ParseEntryType(req.Type); err == nil {
		entry.Type = t
	}
	if st, err := models.ParseEntryStatus(req.Status); err == nil {
		entry.Status = st
	}
	return entry, true
}

func (s *server) createEntryHandler(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, ok := s.buildEntry(c, req)
	if !ok {
		return
	}
	if err := s.ledger.Create(c.Request.Context(), entry); err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEntryResponse(entry))
}

func (s *server) updateEntryHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	existing, err := s.ledger.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry not found"})
		return
	}
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, ok := s.buildEntry(c, req)
	if !ok {
		return
	}
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt
	if entry.Status == "" {
		entry.Status = existing.Status
	}
	if err := s.ledger.Update(c.Request.Context(), entry); err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEntryResponse(entry))
}

func (s *server) updateStatusHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	entry, err := s.ledger.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry not found"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := models.ParseEntryStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "send a valid status"})
		return
	}
	if err := s.ledger.UpdateStatus(c.Request.Context(), entry, status); err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEntryResponse(entry))
}

func (s *server) deleteEntryHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	entry, err := s.ledger.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry not found"})
		return
	}
	if err := s.ledger.Delete(c.Request.Context(), entry); err != nil {
		slog.Error("delete failed", "error", err, "entry_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) searchEntriesHandler(c *gin.Context) {
	userID, err := parseID(c.Query("user"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a user id is required for the query"})
		return
	}
	owner, err := s.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if owner == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no user found for the given id"})
		return
	}
	filter := ledger.Filter{
		Description: c.Query("description"),
		UserID:      userID,
	}
	if v := c.Query("month"); v != "" {
		filter.Month, _ = strconv.Atoi(v)
	}
	if v := c.Query("year"); v != "" {
		filter.Year, _ = strconv.Atoi(v)
	}
	entries, err := s.ledger.Search(c.Request.Context(), filter)
	if err != nil {
		slog.Error("search failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, out)
}

func writeLedgerError(c *gin.Context, err error) {
	var ve *ledger.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}
	slog.Error("entry operation failed", "error", err, "request_id", c.GetString("request_id"))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
}

func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(v), nil
}
