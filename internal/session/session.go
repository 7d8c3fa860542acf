// Package session holds the state of one page session: the signed-in user,
// the selected panel, and the record and product collections it owns.
package session

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ototansan/internal/db"
	"github.com/ukydev/ototansan/internal/locale"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/printer"
	"github.com/ukydev/ototansan/internal/timer"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrRecordNotFound   = errors.New("record not found")
)

// Confirmation prompts shown before destructive actions.
const (
	PromptDeleteRecord  = "Apakah Anda yakin ingin menghapus data ini?"
	PromptDeleteProduct = "Hapus produk ini?"
)

// Authenticator resolves credentials after a simulated network delay.
type Authenticator interface {
	AuthenticateAsync(ctx context.Context, email, password string) *timer.Op[*models.User]
}

// Confirmer asks the user to confirm a destructive action. A false answer
// turns the action into a no-op.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Answer is a fixed confirmation answer.
type Answer bool

// Confirm returns the fixed answer.
func (a Answer) Confirm(context.Context, string) bool { return bool(a) }

// Options configures new sessions.
type Options struct {
	Locale     locale.Locale
	Printer    printer.Printer
	PrintDelay time.Duration
}

// Session is the controller of one page session. All methods are safe for
// concurrent use; each runs to completion before the next one starts.
type Session struct {
	mu sync.Mutex

	id       string
	auth     Authenticator
	records  db.RecordCollection
	products db.ProductCollection
	printer  printer.Printer
	loc      locale.Locale

	printDelay time.Duration
	policy     *bluemonday.Policy

	user    *models.User
	view    models.View
	staged  *models.ServiceRecord
	pending *timer.Op[struct{}]
}

// New creates a signed-out session over the given collections.
func New(id string, auth Authenticator, records db.RecordCollection, products db.ProductCollection, opts Options) *Session {
	if opts.Printer == nil {
		opts.Printer = printer.LogPrinter{}
	}
	if opts.Locale.Name == "" {
		opts.Locale = locale.New(locale.Default)
	}

	return &Session{
		id:         id,
		auth:       auth,
		records:    records,
		products:   products,
		printer:    opts.Printer,
		loc:        opts.Locale,
		printDelay: opts.PrintDelay,
		policy:     bluemonday.StrictPolicy(),
		view:       models.DefaultView,
	}
}

// ID returns the page session identifier.
func (s *Session) ID() string { return s.id }

// Locale returns the display locale.
func (s *Session) Locale() locale.Locale { return s.loc }

// Login authenticates and makes the user current. On failure the session is
// unchanged. Cancelling ctx abandons the pending authentication.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	op := s.auth.AuthenticateAsync(ctx, email, password)
	user, err := op.Wait(ctx)
	if err != nil {
		op.Cancel()
		log.WithFields(log.Fields{"session_id": s.id, "email": email}).WithError(err).Info("Login rejected")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	s.view = models.DefaultView
	s.staged = nil

	log.WithFields(log.Fields{"session_id": s.id, "user_id": user.ID, "role": user.Role}).Info("User logged in")
	return copyUser(user), nil
}

// Logout clears the current user and returns to the default panel.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		log.WithFields(log.Fields{"session_id": s.id, "user_id": s.user.ID}).Info("User logged out")
	}
	s.user = nil
	s.view = models.DefaultView
	s.staged = nil
}

// CurrentUser returns the signed-in user or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.user)
}

// View returns the selected panel.
func (s *Session) View() models.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Navigate selects a panel.
func (s *Session) Navigate(v models.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.requireUser()
	if err != nil {
		return err
	}
	if !v.AllowedFor(user.Role) {
		return fmt.Errorf("view %s: %w", v, ErrForbidden)
	}
	s.view = v
	return nil
}

// VisibleRecords returns the records the current user may see.
func (s *Session) VisibleRecords(ctx context.Context) ([]models.ServiceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	all, err := s.records.FindRecords(ctx, nil)
	if err != nil {
		return nil, err
	}
	return VisibleRecords(all, user), nil
}

// Stats computes the dashboard aggregates for the current user.
func (s *Session) Stats(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, _, err := s.stats(ctx)
	return stats, err
}

// Dashboard builds the dashboard panel for the current user.
func (s *Session) Dashboard(ctx context.Context) (Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, visible, err := s.stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(s.user.Role, stats, Recent(visible, RecentLimit)), nil
}

func (s *Session) stats(ctx context.Context) (Stats, []models.ServiceRecord, error) {
	user, err := s.requireUser()
	if err != nil {
		return Stats{}, nil, err
	}
	all, err := s.records.FindRecords(ctx, nil)
	if err != nil {
		return Stats{}, nil, err
	}
	visible := VisibleRecords(all, user)
	stats := ComputeStats(visible, all, s.loc)
	if !user.HasPermission(models.ActionViewCustomers) {
		stats.TotalCustomers = 0
	}
	return stats, visible, nil
}

// AddRecord logs a new service visit and switches to the history panel.
// Users log visits for themselves; staff give the customer's name.
func (s *Session) AddRecord(ctx context.Context, in models.RecordInput) (models.ServiceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.requireUser()
	if err != nil {
		return models.ServiceRecord{}, err
	}
	if !user.HasPermission(models.ActionCreateRecord) {
		return models.ServiceRecord{}, ErrForbidden
	}

	in.CustomerName = s.clean(in.CustomerName)
	in.CarModel = s.clean(in.CarModel)
	in.Date = strings.TrimSpace(in.Date)
	in.OilType = s.clean(in.OilType)
	in.Notes = s.clean(in.Notes)

	if err := in.Validate(user.IsAdmin()); err != nil {
		return models.ServiceRecord{}, err
	}

	ownerName := user.Name
	if user.IsAdmin() && in.CustomerName != "" {
		ownerName = in.CustomerName
	}

	record := models.ServiceRecord{
		ID:            db.NewID(),
		OwnerID:       user.ID,
		OwnerName:     ownerName,
		CarModel:      in.CarModel,
		Date:          in.Date,
		Kilometers:    in.Kilometers,
		OilType:       in.OilType,
		Notes:         in.Notes,
		NextServiceKm: models.NextServiceKm(in.Kilometers),
	}

	if err := s.records.InsertRecord(ctx, record); err != nil {
		return models.ServiceRecord{}, fmt.Errorf("failed to insert record: %w", err)
	}
	s.view = models.ViewHistory

	log.WithFields(log.Fields{
		"session_id":      s.id,
		"user_id":         user.ID,
		"record_id":       record.ID,
		"next_service_km": record.NextServiceKm,
	}).Info("Service record added")
	return record, nil
}

// DeleteRecord removes a visible record after confirmation. It reports whether
// a record was removed; a declined prompt or an unknown id is a no-op.
func (s *Session) DeleteRecord(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.requireUser()
	if err != nil {
		return false, err
	}
	if !user.HasPermission(models.ActionDeleteRecord) {
		return false, ErrForbidden
	}

	if !confirm.Confirm(ctx, PromptDeleteRecord) {
		return false, nil
	}

	record, err := s.records.FindRecordByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !user.IsAdmin() && record.OwnerID != user.ID {
		return false, nil
	}

	deleted, err := s.records.DeleteRecord(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	if deleted {
		if s.staged != nil && s.staged.ID == id {
			s.staged = nil
		}
		log.WithFields(log.Fields{"session_id": s.id, "user_id": user.ID, "record_id": id}).Info("Service record deleted")
	}
	return deleted, nil
}

// Products lists the catalog, optionally limited to one category.
func (s *Session) Products(ctx context.Context, category models.Category) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireUser(); err != nil {
		return nil, err
	}
	return s.findProducts(ctx, category)
}

// OilProducts lists the oils suggested on the add-service form.
func (s *Session) OilProducts(ctx context.Context) ([]models.Product, error) {
	return s.Products(ctx, models.CategoryOil)
}

func (s *Session) findProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	var filter bson.M
	if category != "" {
		filter = bson.M{"category": string(category)}
	}
	return s.products.FindProducts(ctx, filter)
}

// AddProduct adds a catalog entry and switches to the catalog panel.
func (s *Session) AddProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.requireUser()
	if err != nil {
		return models.Product{}, err
	}
	if !user.HasPermission(models.ActionManageProducts) {
		return models.Product{}, ErrForbidden
	}

	in.Name = s.clean(in.Name)
	in.Description = s.clean(in.Description)
	in.Image = strings.TrimSpace(in.Image)
	if err := in.Validate(); err != nil {
		return models.Product{}, err
	}
	if in.Image == "" {
		in.Image = models.PlaceholderImage
	}

	product := models.Product{
		ID:          db.NewID(),
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Image:       in.Image,
		Description: in.Description,
	}

	if err := s.products.InsertProduct(ctx, product); err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	s.view = models.ViewProducts

	log.WithFields(log.Fields{"session_id": s.id, "user_id": user.ID, "product_id": product.ID}).Info("Product added")
	return product, nil
}

// DeleteProduct removes a catalog entry after confirmation.
func (s *Session) DeleteProduct(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.requireUser()
	if err != nil {
		return false, err
	}
	if !user.HasPermission(models.ActionManageProducts) {
		return false, ErrForbidden
	}

	if !confirm.Confirm(ctx, PromptDeleteProduct) {
		return false, nil
	}

	product, err := s.products.FindProductByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	deleted, err := s.products.DeleteProduct(ctx, product.ID)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	if deleted {
		log.WithFields(log.Fields{"session_id": s.id, "user_id": user.ID, "product_id": id, "name": product.Name}).Info("Product deleted")
	}
	return deleted, nil
}

// PrintRecord stages a visible record for the print view and triggers the
// printer after the print delay. A print still waiting on its delay is
// cancelled. The returned handle resolves once the printer has been called;
// callers are free to ignore it.
func (s *Session) PrintRecord(ctx context.Context, id string) (*timer.Op[struct{}], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	if !user.HasPermission(models.ActionPrintRecord) {
		return nil, ErrForbidden
	}

	record, err := s.records.FindRecordByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) || (err == nil && !user.IsAdmin() && record.OwnerID != user.ID) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.pending != nil {
		s.pending.Cancel()
	}
	s.staged = record
	job := printer.Job{SessionID: s.id, Record: *record, RequestedAt: time.Now()}
	p := s.printer

	s.pending = timer.Start(context.Background(), s.printDelay, func(ctx context.Context) (struct{}, error) {
		if err := p.Print(ctx, job); err != nil {
			log.WithFields(log.Fields{"session_id": job.SessionID, "record_id": job.Record.ID}).WithError(err).Error("Failed to print service card")
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	log.WithFields(log.Fields{"session_id": s.id, "user_id": user.ID, "record_id": id}).Info("Service card staged for printing")
	return s.pending, nil
}

// StagedRecord returns the record staged for printing, if any.
func (s *Session) StagedRecord() (*models.ServiceRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil || s.staged == nil {
		return nil, false
	}
	r := *s.staged
	return &r, true
}

func (s *Session) requireUser() (*models.User, error) {
	if s.user == nil {
		return nil, ErrNotAuthenticated
	}
	return s.user, nil
}

// clean strips markup from free text.
func (s *Session) clean(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
