// Package provision creates a tenant and seeds illustrative rows so a new
// account opens on a non-empty dashboard.
//
// The tenant insert is the only fatal step. Each seed step runs on its own,
// without a shared transaction and without compensation: a failed step is
// logged, recorded in the Result, and the next step still runs.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/internal/plan"
	"github.com/hugorgg/command-ai-nexus/prometheus"
	"go.uber.org/zap"
)

var (
	// ErrInvalidRequest is returned before any write when a required field is missing
	ErrInvalidRequest = errors.New("invalid provisioning request")
	// ErrTenantCreate is returned when the tenant row could not be inserted
	ErrTenantCreate = errors.New("tenant creation failed")
)

// Request is the provisioning input
type Request struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	Tier  string `json:"tier" validate:"required"`
}

// StepResult records the outcome of one seed step
type StepResult struct {
	Name  string `json:"name"`
	Rows  int    `json:"rows"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Result is returned whenever the tenant row was created
type Result struct {
	TenantID string       `json:"tenant_id"`
	Steps    []StepResult `json:"steps"`
}

// Failed lists the names of the steps that did not complete
func (r *Result) Failed() []string {
	var names []string
	for _, s := range r.Steps {
		if !s.OK {
			names = append(names, s.Name)
		}
	}
	return names
}

// Store is the write surface the routine needs
type Store interface {
	CreateTenant(ctx context.Context, tenant *model.Tenant) error
	Insert(ctx context.Context, rows any) error
}

// Provisioner runs the bootstrap routine
type Provisioner struct {
	store    Store
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

// New creates a Provisioner. A nil validate gets a fresh validator.
func New(store Store, validate *validator.Validate, log *zap.Logger) *Provisioner {
	if validate == nil {
		validate = validator.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provisioner{store: store, validate: validate, log: log, now: time.Now}
}

// Validate trims the request and checks it without touching the store
func (p *Provisioner) Validate(req *Request) (plan.Tier, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Tier = strings.TrimSpace(req.Tier)

	if err := p.validate.Struct(req); err != nil {
		var fields []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
		}
		return plan.Unknown, fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(fields, ", "))
	}

	tier, err := plan.ParseTier(req.Tier)
	if err != nil {
		return plan.Unknown, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return tier, nil
}

// Provision creates the tenant and runs every seed step
func (p *Provisioner) Provision(ctx context.Context, req Request) (*Result, error) {
	tier, err := p.Validate(&req)
	if err != nil {
		return nil, err
	}

	log := p.log.With(zap.String("tenant_email", req.Email))
	log.Info("Creating tenant", zap.String("name", req.Name), zap.String("tier", tier.String()))

	tenant := &model.Tenant{Name: req.Name, Email: req.Email, Tier: tier.String()}
	if err := p.store.CreateTenant(ctx, tenant); err != nil {
		log.Error("Failed to create tenant", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTenantCreate, err)
	}
	log = log.With(zap.String("tenant_id", tenant.ID))
	log.Info("Tenant created")

	result := &Result{TenantID: tenant.ID}
	now := p.now()
	for _, step := range seedSteps {
		rows, count := step.build(tenant.ID, now)
		outcome := StepResult{Name: step.name, Rows: count, OK: true}

		if err := p.store.Insert(ctx, rows); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
			log.Error("Seed step failed", zap.String("step", step.name), zap.Error(err))
		} else {
			log.Info("Seed step inserted", zap.String("step", step.name), zap.Int("rows", count))
		}
		prometheus.RecordSeedStep(step.name, outcome.OK)
		result.Steps = append(result.Steps, outcome)
	}

	if failed := result.Failed(); len(failed) > 0 {
		log.Warn("Tenant provisioned with partial sample data", zap.Strings("failed_steps", failed))
	}
	return result, nil
}
