package main

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Victor-armando18/service-checkout/internal/domain"
	"github.com/Victor-armando18/service-checkout/internal/infrastructure"
	"github.com/Victor-armando18/service-checkout/internal/infrastructure/bus"
	"github.com/Victor-armando18/service-checkout/internal/interfaces"
	"github.com/Victor-armando18/service-checkout/internal/usecase"
	"github.com/Victor-armando18/service-checkout/internal/usecase/validate"
	"github.com/Victor-armando18/service-checkout/pkg/checkout"
)

type server struct {
	mu       sync.Mutex
	sessions map[string]*session

	commerce  interfaces.CommerceGateway
	payments  interfaces.PaymentGateway
	filter    interfaces.OptionFilter
	validator *validate.Validator
	events    *bus.CartBus
	log       *zap.Logger
}

// session liga um coordenador à sua confirmação por query param.
type session struct {
	coord   *usecase.Coordinator
	confirm *paramConfirm
}

// paramConfirm traduz o "confirmar edição destrutiva" do contrato para
// HTTP: o handler arma a flag a partir de ?confirm=true antes de cada
// chamada. As operações de uma sessão são serializadas pelo coordenador.
type paramConfirm struct {
	v atomic.Bool
}

func (p *paramConfirm) Confirm(string) bool { return p.v.Load() }

func newServer(commerce interfaces.CommerceGateway, payments interfaces.PaymentGateway, filter interfaces.OptionFilter, validator *validate.Validator, events *bus.CartBus, log *zap.Logger) *server {
	return &server{
		sessions:  make(map[string]*session),
		commerce:  commerce,
		payments:  payments,
		filter:    filter,
		validator: validator,
		events:    events,
		log:       log,
	}
}

type createSessionRequest struct {
	CartID string `json:"cart_id"`
}

func (s *server) handleCreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	confirm := &paramConfirm{}
	coord := usecase.NewCoordinator(usecase.Deps{
		Commerce:  s.commerce,
		Payments:  s.payments,
		Store:     infrastructure.NewMemoryCartStore(req.CartID),
		Filter:    s.filter,
		Confirm:   confirm,
		Validator: s.validator,
		Log:       s.log,
	})
	coord.Attach(s.events)

	if err := coord.Start(c.Request().Context()); err != nil {
		return s.fail(c, err)
	}

	s.mu.Lock()
	s.sessions[coord.SessionID()] = &session{coord: coord, confirm: confirm}
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, s.view(coord))
}

func (s *server) handleGetSession(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.view(sess.coord))
}

func (s *server) handleSubmitAddress(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var update domain.CartUpdate
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := sess.coord.SubmitAddress(c.Request().Context(), update); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.view(sess.coord))
}

type selectShippingRequest struct {
	OptionID string `json:"option_id"`
}

func (s *server) handleSelectShipping(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req selectShippingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	sess.coord.SelectShipping(req.OptionID)
	if err := sess.coord.ContinueShipping(c.Request().Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.view(sess.coord))
}

func (s *server) handleProceedToPayment(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	if err := sess.coord.ProceedToPayment(c.Request().Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.view(sess.coord))
}

type paymentResultRequest struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handlePaymentResult é a ponte do SDK de pagamento do lado do cliente:
// o storefront reporta aqui o resultado da confirmação.
func (s *server) handlePaymentResult(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req paymentResultRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if req.Status == "succeeded" {
		sess.coord.HandlePaymentSuccess()
	} else {
		sess.coord.HandlePaymentError(req.Message)
	}
	return c.JSON(http.StatusOK, s.view(sess.coord))
}

func (s *server) handleRetry(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	if err := sess.coord.Retry(c.Request().Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.view(sess.coord))
}

func (s *server) handleEditAddress(c echo.Context) error {
	return s.handleEdit(c, func(sess *session) error {
		return sess.coord.EditAddress(c.Request().Context())
	})
}

func (s *server) handleEditShipping(c echo.Context) error {
	return s.handleEdit(c, func(sess *session) error {
		return sess.coord.EditShipping(c.Request().Context())
	})
}

func (s *server) handleEdit(c echo.Context, op func(*session) error) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sess.confirm.v.Store(c.QueryParam("confirm") == "true")
	defer sess.confirm.v.Store(false)

	if err := op(sess); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.view(sess.coord))
}

func (s *server) handleStartOver(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	if err := sess.coord.StartOver(c.Request().Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, s.view(sess.coord))
}

type createIntentRequest struct {
	CartID string `json:"cartId"`
}

func (s *server) handleCreateIntent(c echo.Context) error {
	var req createIntentRequest
	if err := c.Bind(&req); err != nil || req.CartID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cartId is required"})
	}
	cart, err := s.commerce.FetchCart(c.Request().Context(), req.CartID)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	handle, err := s.payments.CreateIntent(c.Request().Context(), cart)
	if err != nil {
		s.log.Error("create intent failed", zap.String("cart_id", req.CartID), zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, handle)
}

type cartEventRequest struct {
	CartID string `json:"cart_id"`
}

func (s *server) handleCartEvent(c echo.Context) error {
	var req cartEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	s.events.Publish(req.CartID)
	return c.NoContent(http.StatusAccepted)
}

// --- helpers ---

func (s *server) session(c echo.Context) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "unknown checkout session"})
	}
	return sess, nil
}

type sessionView struct {
	SessionID string                  `json:"session_id"`
	Binding   checkout.Binding        `json:"binding"`
	Cart      *domain.Cart            `json:"cart,omitempty"`
	Options   []domain.ShippingOption `json:"shipping_options,omitempty"`
	Payment   *domain.PaymentHandle   `json:"payment,omitempty"`
	LastError string                  `json:"last_error,omitempty"`
}

func (s *server) view(coord *usecase.Coordinator) sessionView {
	return sessionView{
		SessionID: coord.SessionID(),
		Binding:   checkout.For(coord.State()),
		Cart:      coord.Cart(),
		Options:   coord.ShippingOptions(),
		Payment:   coord.PaymentHandle(),
		LastError: coord.LastError(),
	}
}

func (s *server) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrOperationInFlight):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrConfirmationRequired):
		return c.JSON(http.StatusConflict, map[string]any{
			"error":                 err.Error(),
			"confirmation_required": true,
		})
	case errors.Is(err, domain.ErrNoPendingSelection), errors.Is(err, domain.ErrCartNotFound):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
