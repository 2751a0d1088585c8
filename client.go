package aha

import (
	"context"
	"errors"
	"fmt"
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/aha/rules"
	"github.com/shimmeringbee/callbacks"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"golang.org/x/sync/semaphore"
	"net/http"
	"net/url"
	"sync"
	"time"
)

var _ capability.Gateway = (*Client)(nil)

type Config struct {
	// Host of the gateway, http:// is assumed if no scheme is given.
	Host     string
	User     string
	Password string

	Timeout            time.Duration
	InsecureSkipVerify bool

	// BusyAttempts and BusyInterval bound the wait for a device to finish transmitting, devices matched by Rules
	// may override both with the "busy" settings "attempts" and "interval".
	BusyAttempts int
	BusyInterval time.Duration
	Rules        *rules.Rule

	HTTPClient *http.Client
	Now        func() time.Time
}

// Client talks to a single gateway and holds the reconciled devices, templates and triggers.
type Client struct {
	config Config
	base   string
	http   *http.Client
	logger logwrap.Logger

	sidLock *sync.Mutex
	sid     string

	refresh   *semaphore.Weighted
	callbacks callbacks.AdderCaller

	devices   *table[*Device]
	templates *table[*Template]
	triggers  *table[*Trigger]
}

func New(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	if config.BusyAttempts <= 0 {
		config.BusyAttempts = capability.DefaultBusyAttempts
	}

	if config.BusyInterval <= 0 {
		config.BusyInterval = capability.DefaultBusyInterval
	}

	if config.Now == nil {
		config.Now = time.Now
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(config.Timeout, config.InsecureSkipVerify)
	}

	c := &Client{
		config:    config,
		base:      baseURL(config.Host),
		http:      httpClient,
		logger:    logwrap.New(discard.Discard()),
		sidLock:   &sync.Mutex{},
		refresh:   semaphore.NewWeighted(1),
		callbacks: callbacks.Create(),
	}

	c.devices = newTable(c.logger, func() *Device {
		d := NewDevice(c)
		c.prepare(&d.Device)
		return d
	})
	c.templates = newTable(c.logger, func() *Template {
		t := newTemplate(c)
		c.prepare(&t.Device)
		return t
	})
	c.triggers = newTable(c.logger, func() *Trigger {
		t := newTrigger(c)
		c.prepare(&t.Device)
		return t
	})

	return c
}

func (c *Client) prepare(d *capability.Device) {
	d.Now = c.config.Now
	d.BusyAttempts = c.config.BusyAttempts
	d.BusyInterval = c.config.BusyInterval
}

// Callbacks allows registration of functions receiving DeviceAdded, DeviceRemoved and their template and trigger
// equivalents.
func (c *Client) Callbacks() callbacks.Adder {
	return c.callbacks
}

// Command issues a home automation command, logging in first if needed and once more if the session has expired.
func (c *Client) Command(ctx context.Context, verb string, ain string, params map[string]string) (string, error) {
	if c.currentSID() == "" {
		if err := c.Login(ctx); err != nil {
			return "", err
		}
	}

	resp, err := c.command(ctx, verb, ain, params)
	if errors.Is(err, errForbidden) {
		c.logger.LogInfo(ctx, "Session rejected, logging in again.", logwrap.Datum("command", verb))

		if err := c.Login(ctx); err != nil {
			return "", err
		}

		resp, err = c.command(ctx, verb, ain, params)
	}

	if errors.Is(err, errForbidden) {
		return "", fmt.Errorf("%s: %w", verb, ErrNotLoggedIn)
	} else if err != nil {
		return "", fmt.Errorf("%s: %w", verb, err)
	}

	if resp == "inval" {
		return "", fmt.Errorf("%s: %w", verb, ErrInvalidParameter)
	}

	return resp, nil
}

func (c *Client) command(ctx context.Context, verb string, ain string, params map[string]string) (string, error) {
	query := url.Values{}
	query.Set("switchcmd", verb)
	query.Set("sid", c.currentSID())

	if ain != "" {
		query.Set("ain", ain)
	}

	for k, v := range params {
		query.Set(k, v)
	}

	c.logger.LogTrace(ctx, "Sending command.", logwrap.Datum("command", verb), logwrap.Datum("ain", ain))
	return c.get(ctx, commandPath, query)
}

// Busy reports if the device is still transmitting the previous command.
func (c *Client) Busy(ctx context.Context, ain string) (bool, error) {
	n, err := c.fetchNode(ctx, "getdeviceinfos", ain)
	if err != nil {
		return false, err
	}

	busy := capability.Bool(n, "txbusy")
	return busy != nil && *busy, nil
}

func (c *Client) fetchNode(ctx context.Context, verb string, ain string) (*capability.Node, error) {
	resp, err := c.Command(ctx, verb, ain, nil)
	if err != nil {
		return nil, err
	}

	n, err := capability.ParseNode([]byte(resp))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", verb, ErrInvalidResponse, err)
	}

	return n, nil
}

// fetchList returns the children of the list document matching any of the element names, in document order.
func (c *Client) fetchList(ctx context.Context, verb string, elements ...string) ([]*capability.Node, error) {
	root, err := c.fetchNode(ctx, verb, "")
	if err != nil {
		return nil, err
	}

	var nodes []*capability.Node

	for _, child := range root.Children {
		for _, e := range elements {
			if child.Name() == e {
				nodes = append(nodes, child)
				break
			}
		}
	}

	return nodes, nil
}

// UpdateDevices fetches the device list and reconciles it, removing devices no longer listed if prune is set.
func (c *Client) UpdateDevices(ctx context.Context, prune bool) error {
	if err := c.refresh.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.refresh.Release(1)

	ctx, end := c.logger.Segment(ctx, "Updating devices.")
	defer end()

	nodes, err := c.fetchList(ctx, "getdevicelistinfos", "device", "group")
	if err != nil {
		c.logger.LogError(ctx, "Failed to fetch device list.", logwrap.Err(err))
		return err
	}

	added, removed := c.devices.reconcile(ctx, nodes, prune)

	for _, d := range added {
		c.applyRules(d)
		c.sendEvent(ctx, DeviceAdded{Device: d})
	}

	for _, d := range removed {
		c.sendEvent(ctx, DeviceRemoved{Device: d})
	}

	c.logger.LogDebug(ctx, "Devices updated.", logwrap.Datum("count", len(nodes)), logwrap.Datum("added", len(added)), logwrap.Datum("removed", len(removed)))
	return nil
}

// UpdateDevice refreshes a single device from getdeviceinfos.
func (c *Client) UpdateDevice(ctx context.Context, ain string) error {
	if err := c.refresh.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.refresh.Release(1)

	n, err := c.fetchNode(ctx, "getdeviceinfos", ain)
	if err != nil {
		return err
	}

	added, _ := c.devices.reconcile(ctx, []*capability.Node{n}, false)

	for _, d := range added {
		c.applyRules(d)
		c.sendEvent(ctx, DeviceAdded{Device: d})
	}

	return nil
}

func (c *Client) UpdateTemplates(ctx context.Context, prune bool) error {
	if err := c.refresh.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.refresh.Release(1)

	ctx, end := c.logger.Segment(ctx, "Updating templates.")
	defer end()

	nodes, err := c.fetchList(ctx, "gettemplatelistinfos", "template")
	if err != nil {
		c.logger.LogError(ctx, "Failed to fetch template list.", logwrap.Err(err))
		return err
	}

	added, removed := c.templates.reconcile(ctx, nodes, prune)

	for _, t := range added {
		c.sendEvent(ctx, TemplateAdded{Template: t})
	}

	for _, t := range removed {
		c.sendEvent(ctx, TemplateRemoved{Template: t})
	}

	return nil
}

func (c *Client) UpdateTriggers(ctx context.Context, prune bool) error {
	if err := c.refresh.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.refresh.Release(1)

	ctx, end := c.logger.Segment(ctx, "Updating triggers.")
	defer end()

	nodes, err := c.fetchList(ctx, "gettriggerlistinfos", "trigger")
	if err != nil {
		c.logger.LogError(ctx, "Failed to fetch trigger list.", logwrap.Err(err))
		return err
	}

	added, removed := c.triggers.reconcile(ctx, nodes, prune)

	for _, t := range added {
		c.sendEvent(ctx, TriggerAdded{Trigger: t})
	}

	for _, t := range removed {
		c.sendEvent(ctx, TriggerRemoved{Trigger: t})
	}

	return nil
}

func (c *Client) sendEvent(ctx context.Context, event any) {
	if err := c.callbacks.Call(ctx, event); err != nil {
		c.logger.LogWarn(ctx, "Callback returned error.", logwrap.Datum("event", fmt.Sprintf("%T", event)), logwrap.Err(err))
	}
}

// applyRules sets per device busy wait behaviour and room from the most specific matching rule.
func (c *Client) applyRules(d *Device) {
	if c.config.Rules == nil {
		return
	}

	var matched *rules.Rule

	d.Read(func() {
		matched = c.config.Rules.Match(matchData(d))
	})

	if matched == nil {
		return
	}

	d.Write(func() {
		d.BusyAttempts = matched.IntSetting("busy", "attempts", c.config.BusyAttempts)
		d.BusyInterval = matched.DurationSetting("busy", "interval", c.config.BusyInterval)
		d.waitForIdle = matched.BooleanSetting("busy", "wait", true)
		d.Room = matched.StringSetting("device", "room", "")
	})
}

func (c *Client) Devices() []*Device {
	return c.devices.all()
}

func (c *Client) Device(ain string) (*Device, error) {
	if d, found := c.devices.get(ain); found {
		return d, nil
	}

	return nil, fmt.Errorf("device %s: %w", ain, ErrUnknownIdentifier)
}

// DeviceByName returns the first device with the given name.
func (c *Client) DeviceByName(name string) (*Device, error) {
	for _, d := range c.devices.all() {
		var match bool

		d.Read(func() {
			match = d.Name == name
		})

		if match {
			return d, nil
		}
	}

	return nil, fmt.Errorf("device named %s: %w", name, ErrUnknownIdentifier)
}

func (c *Client) Templates() []*Template {
	return c.templates.all()
}

func (c *Client) Template(ain string) (*Template, error) {
	if t, found := c.templates.get(ain); found {
		return t, nil
	}

	return nil, fmt.Errorf("template %s: %w", ain, ErrUnknownIdentifier)
}

func (c *Client) Triggers() []*Trigger {
	return c.triggers.all()
}

func (c *Client) Trigger(ain string) (*Trigger, error) {
	if t, found := c.triggers.get(ain); found {
		return t, nil
	}

	return nil, fmt.Errorf("trigger %s: %w", ain, ErrUnknownIdentifier)
}
