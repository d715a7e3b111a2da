package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Victor-armando18/service-checkout/internal/domain"
	"github.com/Victor-armando18/service-checkout/internal/domain/machine"
	"github.com/Victor-armando18/service-checkout/internal/infrastructure/diff"
	"github.com/Victor-armando18/service-checkout/internal/interfaces"
	"github.com/Victor-armando18/service-checkout/internal/usecase/validate"
)

// Deps agrupa as portas externas do coordenador.
type Deps struct {
	Commerce  interfaces.CommerceGateway
	Payments  interfaces.PaymentGateway
	Store     interfaces.CartStore
	Filter    interfaces.OptionFilter
	Confirm   interfaces.ConfirmPrompt
	Validator *validate.Validator
	Log       *zap.Logger
}

// Coordinator faz a ponte entre a intenção do utilizador, o I/O externo
// e o reducer. É o único dono dos dados mutáveis da sessão: snapshot do
// carrinho, opções de envio, seleção pendente, payment handle e última
// mensagem de erro. O reducer nunca vê o handle, apenas a sua presença
// via a ação payment-intent-created.
type Coordinator struct {
	mu sync.Mutex

	commerce  interfaces.CommerceGateway
	payments  interfaces.PaymentGateway
	store     interfaces.CartStore
	filter    interfaces.OptionFilter
	confirm   interfaces.ConfirmPrompt
	validator *validate.Validator
	log       *zap.Logger
	differ    diff.Differ

	sessionID     string
	state         domain.State
	cart          *domain.Cart
	options       []domain.ShippingOption
	pendingOption string
	handle        *domain.PaymentHandle
	lastError     string
	inFlight      bool

	observers   []interfaces.StateObserver
	unsubscribe func()
}

func NewCoordinator(deps Deps) *Coordinator {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	sessionID := uuid.NewString()
	return &Coordinator{
		commerce:  deps.Commerce,
		payments:  deps.Payments,
		store:     deps.Store,
		filter:    deps.Filter,
		confirm:   deps.Confirm,
		validator: deps.Validator,
		log:       log.With(zap.String("session_id", sessionID)),
		sessionID: sessionID,
		state:     domain.StateCartLoading,
	}
}

// --- Acessores (thread-safe) ---

func (c *Coordinator) SessionID() string { return c.sessionID }

func (c *Coordinator) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Cart() *domain.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

func (c *Coordinator) ShippingOptions() []domain.ShippingOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ShippingOption(nil), c.options...)
}

func (c *Coordinator) PaymentHandle() *domain.PaymentHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return nil
	}
	h := *c.handle
	return &h
}

func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// OnStateChange regista um observer chamado após cada transição. Os
// observers não devem reentrar no coordenador.
func (c *Coordinator) OnStateChange(fn interfaces.StateObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Attach subscreve as notificações de mutação externa do carrinho.
func (c *Coordinator) Attach(events interfaces.CartEvents) {
	c.unsubscribe = events.Subscribe(c.onCartChanged)
}

func (c *Coordinator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// --- Dispatch ---

func (c *Coordinator) dispatch(action domain.Action) {
	c.mu.Lock()
	from := c.state
	next := machine.Reduce(from, action)
	c.applyPayload(action)
	c.state = next
	observers := append([]interfaces.StateObserver(nil), c.observers...)
	c.mu.Unlock()

	if next == from {
		c.log.Debug("action ignored by reducer",
			zap.String("action", string(action.Kind)),
			zap.String("state", string(from)))
		return
	}
	c.log.Info("checkout transition",
		zap.String("action", string(action.Kind)),
		zap.String("from", string(from)),
		zap.String("to", string(next)))
	for _, fn := range observers {
		fn(next)
	}
}

// applyPayload atualiza os dados de sessão transportados pela ação.
// Chamado com o lock adquirido.
func (c *Coordinator) applyPayload(action domain.Action) {
	switch action.Kind {
	case domain.ActionCartLoaded, domain.ActionShippingApplied:
		if action.Cart != nil {
			c.cart = action.Cart
		}
	case domain.ActionShippingOptionsLoaded:
		c.options = action.Options
	case domain.ActionPaymentIntentCreated:
		c.handle = action.Handle
	case domain.ActionCartEmpty,
		domain.ActionShippingOptionsError,
		domain.ActionShippingApplyError,
		domain.ActionPaymentIntentError,
		domain.ActionPaymentFailed:
		c.lastError = action.Message
	}
}

// --- Exclusão de operações concorrentes ---

func (c *Coordinator) beginOp() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return domain.ErrOperationInFlight
	}
	c.inFlight = true
	return nil
}

func (c *Coordinator) endOp() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// --- Operações ---

// Start carrega o carrinho persistido e decide a entrada do fluxo.
func (c *Coordinator) Start(ctx context.Context) error {
	if err := c.beginOp(); err != nil {
		return err
	}
	defer c.endOp()
	c.load(ctx)
	return nil
}

func (c *Coordinator) load(ctx context.Context) {
	cartID, err := c.store.Load()
	if err != nil {
		c.dispatch(domain.CartEmptied(err.Error()))
		return
	}
	if cartID == "" {
		// Sem carrinho guardado: nenhuma chamada de rede é feita.
		c.dispatch(domain.CartEmptied(""))
		return
	}

	cart, fetchErr, report := c.fetchAndValidate(ctx, cartID)
	switch {
	case fetchErr != nil:
		c.dispatch(domain.CartEmptied(fetchErr.Error()))
	case !report.Valid:
		c.dispatch(domain.CartEmptied(strings.Join(report.Errors, "; ")))
	default:
		c.dispatch(domain.CartLoaded(cart))
	}
}

// fetchAndValidate corre o fetch do snapshot e a validação em paralelo.
func (c *Coordinator) fetchAndValidate(ctx context.Context, cartID string) (*domain.Cart, error, validate.Report) {
	var (
		cart     *domain.Cart
		fetchErr error
		report   validate.Report
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cart, fetchErr = c.commerce.FetchCart(ctx, cartID)
	}()
	go func() {
		defer wg.Done()
		report = c.validator.Validate(ctx, cartID)
	}()
	wg.Wait()
	return cart, fetchErr, report
}

// SubmitAddress dispara a transição otimista e depois corre as duas
// chamadas externas em sequência: atualizar morada, listar opções.
func (c *Coordinator) SubmitAddress(ctx context.Context, update domain.CartUpdate) error {
	c.mu.Lock()
	if c.cart == nil {
		c.mu.Unlock()
		return domain.ErrCartNotFound
	}
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrOperationInFlight
	}
	c.inFlight = true
	cartID := c.cart.ID
	c.mu.Unlock()
	defer c.endOp()

	c.dispatch(domain.Action{Kind: domain.ActionAddressSubmitted})

	cart, err := c.commerce.UpdateCart(ctx, cartID, update)
	if err != nil {
		c.dispatch(domain.ShippingOptionsError(err.Error()))
		return nil
	}
	c.setCart(cart)

	c.fetchOptions(ctx, cartID)
	return nil
}

// fetchOptions lista, filtra e despacha as opções de envio. Assume a
// morada já submetida no carrinho.
func (c *Coordinator) fetchOptions(ctx context.Context, cartID string) {
	options, err := c.commerce.ListShippingOptions(ctx, cartID)
	if err != nil {
		c.dispatch(domain.ShippingOptionsError(err.Error()))
		return
	}
	filtered, err := c.filter.Filter(ctx, options)
	if err != nil {
		c.dispatch(domain.ShippingOptionsError(err.Error()))
		return
	}
	if len(filtered) == 0 {
		c.dispatch(domain.ShippingOptionsError("no eligible shipping options for this address"))
		return
	}
	c.dispatch(domain.ShippingOptionsLoaded(filtered))
}

// SelectShipping regista a seleção pendente. Puramente local.
func (c *Coordinator) SelectShipping(optionID string) {
	c.mu.Lock()
	c.pendingOption = optionID
	c.mu.Unlock()
}

// ContinueShipping aplica a opção pendente ao carrinho.
func (c *Coordinator) ContinueShipping(ctx context.Context) error {
	c.mu.Lock()
	if c.cart == nil {
		c.mu.Unlock()
		return domain.ErrCartNotFound
	}
	if c.pendingOption == "" {
		c.mu.Unlock()
		return domain.ErrNoPendingSelection
	}
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrOperationInFlight
	}
	c.inFlight = true
	optionID := c.pendingOption
	cartID := c.cart.ID
	c.mu.Unlock()
	defer c.endOp()

	c.dispatch(domain.ShippingSelected(optionID))

	cart, err := c.commerce.AddShippingMethod(ctx, cartID, optionID)
	if err != nil {
		c.dispatch(domain.Action{Kind: domain.ActionShippingApplyError, Message: err.Error()})
		return nil
	}
	c.dispatch(domain.ShippingApplied(cart))
	return nil
}

// ProceedToPayment cria o payment intent no máximo uma vez por
// tentativa. Com handle em cache, re-despacha payment-intent-created
// sem nova chamada (proteção contra duplo clique e reentrância).
func (c *Coordinator) ProceedToPayment(ctx context.Context) error {
	c.mu.Lock()
	if c.handle != nil {
		handle := c.handle
		c.mu.Unlock()
		c.log.Info("reusing cached payment handle",
			zap.String("payment_intent_id", handle.PaymentIntentID))
		c.dispatch(domain.PaymentIntentCreated(handle))
		return nil
	}
	if c.cart == nil {
		c.mu.Unlock()
		return domain.ErrCartNotFound
	}
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrOperationInFlight
	}
	c.inFlight = true
	cart := c.cart
	c.mu.Unlock()
	defer c.endOp()

	c.dispatch(domain.Action{Kind: domain.ActionProceedToPayment})
	c.createIntent(ctx, cart)
	return nil
}

func (c *Coordinator) createIntent(ctx context.Context, cart *domain.Cart) {
	handle, err := c.payments.CreateIntent(ctx, cart)
	if err != nil {
		c.dispatch(domain.PaymentIntentError(err.Error()))
		return
	}
	c.dispatch(domain.PaymentIntentCreated(handle))
}

// HandlePaymentSuccess é chamado pelo colaborador de UI de pagamento
// após confirmação bem-sucedida.
func (c *Coordinator) HandlePaymentSuccess() {
	c.dispatch(domain.Action{Kind: domain.ActionPaymentSubmitted})
	c.dispatch(domain.Action{Kind: domain.ActionPaymentSuccess})
}

// HandlePaymentError é chamado pelo colaborador de UI de pagamento
// quando a confirmação falha. O handle em cache não é tocado.
func (c *Coordinator) HandlePaymentError(message string) {
	c.dispatch(domain.Action{Kind: domain.ActionPaymentSubmitted})
	c.dispatch(domain.PaymentFailed(message))
}

// Retry limpa a última mensagem de erro e despacha retry. Nunca toca no
// payment handle em cache. Consoante o estado resultante, re-executa o
// efeito da etapa correspondente.
func (c *Coordinator) Retry(ctx context.Context) error {
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()

	c.dispatch(domain.Action{Kind: domain.ActionRetry})

	switch c.State() {
	case domain.StateShippingCalculation:
		// A morada continua no carrinho; basta repetir a listagem.
		if err := c.beginOp(); err != nil {
			return err
		}
		defer c.endOp()
		c.fetchOptions(ctx, c.Cart().ID)
	case domain.StatePaymentIntentCreating:
		if err := c.beginOp(); err != nil {
			return err
		}
		defer c.endOp()
		c.createIntent(ctx, c.Cart())
	}
	return nil
}

// EditAddress volta ao formulário de morada. Num estado locked exige
// confirmação e reinicia o fluxo por completo: a sessão de pagamento já
// garantida não pode ser retomada após a edição.
func (c *Coordinator) EditAddress(ctx context.Context) error {
	return c.edit(ctx, domain.ActionEditAddress,
		"Changing the address will recalculate shipping and totals. Continue?")
}

// EditShipping volta à escolha de envio, com as mesmas regras de
// confirmação de EditAddress.
func (c *Coordinator) EditShipping(ctx context.Context) error {
	return c.edit(ctx, domain.ActionEditShipping,
		"Changing the shipping method will recalculate totals. Continue?")
}

func (c *Coordinator) edit(ctx context.Context, kind domain.ActionKind, finalizedWarning string) error {
	state := c.State()

	if machine.IsLocked(state) {
		if !c.confirmed("Editing will cancel the secured payment session and restart checkout. Continue?") {
			return domain.ErrConfirmationRequired
		}
		return c.StartOver(ctx)
	}

	if state == domain.StateCartFinalized && !c.confirmed(finalizedWarning) {
		return domain.ErrConfirmationRequired
	}

	c.dispatch(domain.Action{Kind: kind})
	return nil
}

func (c *Coordinator) confirmed(message string) bool {
	if c.confirm == nil {
		return false
	}
	return c.confirm.Confirm(message)
}

// StartOver descarta todos os dados de sessão do coordenador (morada,
// seleção de envio, payment handle) e recomeça em CartLoading. O
// reducer sozinho não consegue limpar o estado do coordenador, por isso
// esta operação equivale ao reload completo da página.
func (c *Coordinator) StartOver(ctx context.Context) error {
	if err := c.beginOp(); err != nil {
		return err
	}
	defer c.endOp()

	c.dispatch(domain.Action{Kind: domain.ActionStartOver})

	c.mu.Lock()
	c.cart = nil
	c.options = nil
	c.pendingOption = ""
	c.handle = nil
	c.lastError = ""
	c.state = domain.StateCartLoading
	c.mu.Unlock()

	c.load(ctx)
	return nil
}

// onCartChanged reage à mutação externa do carrinho: re-sincroniza o
// snapshot, mas apenas quando o estado não está locked — uma sessão de
// pagamento garantida nunca é invalidada silenciosamente.
func (c *Coordinator) onCartChanged(changedID string) {
	c.mu.Lock()
	state := c.state
	current := c.cart
	if machine.IsLocked(state) {
		c.mu.Unlock()
		c.log.Debug("external cart change suppressed: payment session locked",
			zap.String("state", string(state)),
			zap.String("cart_id", changedID))
		return
	}
	if current != nil && changedID != "" && changedID != current.ID {
		c.mu.Unlock()
		return
	}
	if c.inFlight {
		c.mu.Unlock()
		c.log.Debug("external cart change skipped: operation in flight")
		return
	}
	c.inFlight = true
	c.mu.Unlock()
	defer c.endOp()

	cartID := changedID
	if cartID == "" && current != nil {
		cartID = current.ID
	}
	if cartID == "" {
		if stored, err := c.store.Load(); err == nil {
			cartID = stored
		}
	}
	if cartID == "" {
		return
	}

	ctx := context.Background()
	cart, fetchErr, report := c.fetchAndValidate(ctx, cartID)
	switch {
	case fetchErr != nil:
		c.dispatch(domain.CartEmptied(fetchErr.Error()))
	case !report.Valid:
		c.dispatch(domain.CartEmptied(strings.Join(report.Errors, "; ")))
	default:
		delta := c.differ.Diff(diff.Flatten(current), diff.Flatten(cart))
		c.log.Info("cart changed externally, snapshot refreshed",
			zap.String("cart_id", cartID),
			zap.Any("delta", delta))
		c.dispatch(domain.CartLoaded(cart))
	}
}

func (c *Coordinator) setCart(cart *domain.Cart) {
	if cart == nil {
		return
	}
	c.mu.Lock()
	c.cart = cart
	c.mu.Unlock()
}
