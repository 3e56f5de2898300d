package controller

import (
	"context"
	"strings"
	"sync"

	"locality-insights/client"
	"locality-insights/models"
	"locality-insights/utils"
)

// Controller validates user input and drives the Machine through the remote
// service. At most one request is in flight at any time.
type Controller struct {
	svc     client.Service
	machine *Machine
	logger  *utils.Logger
	wg      sync.WaitGroup
}

// New creates a Controller with a fresh Machine in Idle.
func New(svc client.Service, logger *utils.Logger) *Controller {
	return &Controller{svc: svc, machine: NewMachine(), logger: logger}
}

// Machine exposes the owned state machine for reading and subscribing.
func (c *Controller) Machine() *Machine {
	return c.machine
}

// State is shorthand for Machine().Current().
func (c *Controller) State() State {
	return c.machine.Current()
}

// Submit trims raw and, unless it is empty or a request is already in flight,
// enters Loading and issues one request on a new goroutine. It returns
// whether a request was issued; skipped submissions are not errors.
func (c *Controller) Submit(ctx context.Context, raw string) bool {
	query := strings.TrimSpace(raw)
	if query == "" {
		c.logger.Debug("[controller] Ignoring empty query")
		return false
	}
	if !c.machine.Begin() {
		c.logger.Debug("[controller] Request already in flight, ignoring %q", query)
		return false
	}

	c.logger.Info("[controller] Submitting %q", query)
	c.wg.Add(1)
	go c.run(ctx, query)
	return true
}

// Wait blocks until no request is in flight.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) run(ctx context.Context, query string) {
	settled := false
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("[controller] Request for %q panicked: %v", query, r)
		}
		if !settled {
			c.machine.Fail(client.GenericServerMessage)
		}
		c.wg.Done()
	}()

	payload, err := c.svc.Query(ctx, query)
	settled = c.settle(payload, err)
}

func (c *Controller) settle(payload *models.InsightPayload, err error) bool {
	switch {
	case err != nil:
		msg := client.Message(err)
		c.logger.Warn("[controller] Query failed: %s", msg)
		return c.machine.Fail(msg)
	case payload == nil:
		return c.machine.Fail(client.GenericServerMessage)
	default:
		return c.machine.Succeed(payload)
	}
}
