package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/shimmeringbee/aha"
	"github.com/shimmeringbee/aha/internal/config"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
)

var errUsage = errors.New("usage")

const usage = `usage: ahactl [-config file] [-host h] [-user u] [-password p] [-v] <command> [args]

commands:
  list [-filter expr] [-prune]
  templates
  triggers
  name AIN
  present AIN
  switch on|off|toggle|state AIN
  thermostat target AIN CELSIUS
  thermostat state AIN off|on|eco|comfort
  light on|off|toggle AIN
  light color AIN HEX
  level AIN PERCENT
  blind open|close|stop AIN
  template apply AIN
  trigger enable|disable AIN
  metrics [-listen addr] [-interval duration]
`

func main() {
	var configPath, host, user, password string
	var verbose bool

	flag.StringVar(&configPath, "config", "", "path to yaml configuration")
	flag.StringVar(&host, "host", "", "gateway host, overrides configuration")
	flag.StringVar(&user, "user", "", "user name, overrides configuration")
	flag.StringVar(&password, "password", "", "password, overrides configuration")
	flag.BoolVar(&verbose, "v", false, "log protocol activity to stderr")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if password != "" {
		os.Setenv("AHA_PASSWORD", password)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if host != "" {
		cfg.Host = host
	}

	if user != "" {
		cfg.User = user
	}

	clientConfig, err := cfg.ClientConfig()
	if err != nil {
		log.Fatal(err)
	}

	client := aha.New(clientConfig)

	logger := logwrap.New(discard.Discard())
	if verbose {
		logger = logwrap.New(golog.Wrap(log.New(os.Stderr, "", log.LstdFlags)))
	}

	client.WithLogWrapLogger(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = run(ctx, client, logger, flag.Args(), os.Stdout)

	if logoutErr := client.Logout(context.Background()); logoutErr != nil && verbose {
		log.Printf("logout failed: %v", logoutErr)
	}

	if errors.Is(err, errUsage) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *aha.Client, logger logwrap.Logger, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, args := args[0], args[1:]

	switch cmd {
	case "list":
		return list(ctx, client, args, out)
	case "templates":
		return templates(ctx, client, out)
	case "triggers":
		return triggers(ctx, client, out)
	case "metrics":
		return serveMetrics(ctx, client, logger, args, out)
	}

	if err := client.UpdateDevices(ctx, false); err != nil {
		return err
	}

	switch cmd {
	case "name", "present":
		if len(args) != 1 {
			return errUsage
		}

		d, err := client.Device(args[0])
		if err != nil {
			return err
		}

		d.View(func(d *aha.Device) {
			if cmd == "name" {
				fmt.Fprintln(out, d.Name)
			} else {
				fmt.Fprintln(out, d.Present)
			}
		})

		return nil
	case "switch":
		return switchCommand(ctx, client, args, out)
	case "thermostat":
		return thermostatCommand(ctx, client, args)
	case "light":
		return lightCommand(ctx, client, args)
	case "level":
		return levelCommand(ctx, client, args)
	case "blind":
		return blindCommand(ctx, client, args)
	case "template":
		return templateCommand(ctx, client, args)
	case "trigger":
		return triggerCommand(ctx, client, args)
	default:
		return errUsage
	}
}

func list(ctx context.Context, client *aha.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	filter := fs.String("filter", "", "selector expression")
	prune := fs.Bool("prune", false, "remove devices no longer listed")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := client.UpdateDevices(ctx, *prune); err != nil {
		return err
	}

	devices := client.Devices()

	if *filter != "" {
		selected, err := client.Select(*filter)
		if err != nil {
			return err
		}

		devices = selected
	}

	for _, d := range devices {
		names := d.CapabilityNames()

		d.View(func(d *aha.Device) {
			fmt.Fprintf(out, "%s\t%s\t%s\tpresent=%t\t%s\n", d.Identifier, d.Name, d.ProductName, d.Present, strings.Join(names, ","))
		})
	}

	return nil
}

func templates(ctx context.Context, client *aha.Client, out io.Writer) error {
	if err := client.UpdateTemplates(ctx, true); err != nil {
		return err
	}

	for _, t := range client.Templates() {
		t.Read(func() {
			fmt.Fprintf(out, "%s\t%s\t%s\n", t.Identifier, t.Name, strings.Join(t.Devices, ","))
		})
	}

	return nil
}

func triggers(ctx context.Context, client *aha.Client, out io.Writer) error {
	if err := client.UpdateTriggers(ctx, true); err != nil {
		return err
	}

	for _, t := range client.Triggers() {
		t.Read(func() {
			fmt.Fprintf(out, "%s\t%s\tactive=%t\n", t.Identifier, t.Name, t.Active)
		})
	}

	return nil
}

// actionAndDevice splits "<action> AIN [value]" and resolves the device.
func actionAndDevice(client *aha.Client, args []string, n int) (string, *aha.Device, []string, error) {
	if len(args) != n {
		return "", nil, nil, errUsage
	}

	d, err := client.Device(args[1])
	if err != nil {
		return "", nil, nil, err
	}

	return args[0], d, args[2:], nil
}

func switchCommand(ctx context.Context, client *aha.Client, args []string, out io.Writer) error {
	action, d, _, err := actionAndDevice(client, args, 2)
	if err != nil {
		return err
	}

	switch action {
	case "on":
		return d.Switch.On(ctx, d.WaitForIdle())
	case "off":
		return d.Switch.Off(ctx, d.WaitForIdle())
	case "toggle":
		return d.Switch.Toggle(ctx, d.WaitForIdle())
	case "state":
		state, err := d.Switch.QueryState(ctx)
		if err != nil {
			return err
		}

		if state == nil {
			fmt.Fprintln(out, "unknown")
		} else {
			fmt.Fprintln(out, *state)
		}

		return nil
	default:
		return errUsage
	}
}

func thermostatCommand(ctx context.Context, client *aha.Client, args []string) error {
	action, d, rest, err := actionAndDevice(client, args, 3)
	if err != nil {
		return err
	}

	switch action {
	case "target":
		celsius, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return fmt.Errorf("temperature %q: %w", rest[0], err)
		}

		return d.Thermostat.SetTarget(ctx, celsius, d.WaitForIdle())
	case "state":
		return d.Thermostat.SetState(ctx, rest[0], d.WaitForIdle())
	default:
		return errUsage
	}
}

func lightCommand(ctx context.Context, client *aha.Client, args []string) error {
	if len(args) == 3 && args[0] == "color" {
		_, d, rest, err := actionAndDevice(client, args, 3)
		if err != nil {
			return err
		}

		return d.Light.SetColorHex(ctx, rest[0], 0, d.WaitForIdle())
	}

	action, d, _, err := actionAndDevice(client, args, 2)
	if err != nil {
		return err
	}

	switch action {
	case "on":
		return d.Light.On(ctx, d.WaitForIdle())
	case "off":
		return d.Light.Off(ctx, d.WaitForIdle())
	case "toggle":
		return d.Light.Toggle(ctx, d.WaitForIdle())
	default:
		return errUsage
	}
}

func levelCommand(ctx context.Context, client *aha.Client, args []string) error {
	if len(args) != 2 {
		return errUsage
	}

	d, err := client.Device(args[0])
	if err != nil {
		return err
	}

	percentage, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("percentage %q: %w", args[1], err)
	}

	return d.Level.SetLevelPercentage(ctx, percentage, d.WaitForIdle())
}

func blindCommand(ctx context.Context, client *aha.Client, args []string) error {
	action, d, _, err := actionAndDevice(client, args, 2)
	if err != nil {
		return err
	}

	switch action {
	case "open":
		return d.Blind.Open(ctx, d.WaitForIdle())
	case "close":
		return d.Blind.Close(ctx, d.WaitForIdle())
	case "stop":
		return d.Blind.Stop(ctx, d.WaitForIdle())
	default:
		return errUsage
	}
}

func templateCommand(ctx context.Context, client *aha.Client, args []string) error {
	if len(args) != 2 || args[0] != "apply" {
		return errUsage
	}

	if err := client.UpdateTemplates(ctx, false); err != nil {
		return err
	}

	t, err := client.Template(args[1])
	if err != nil {
		return err
	}

	return t.Apply(ctx, false)
}

func triggerCommand(ctx context.Context, client *aha.Client, args []string) error {
	if len(args) != 2 || (args[0] != "enable" && args[0] != "disable") {
		return errUsage
	}

	if err := client.UpdateTriggers(ctx, false); err != nil {
		return err
	}

	t, err := client.Trigger(args[1])
	if err != nil {
		return err
	}

	return t.SetActive(ctx, args[0] == "enable", false)
}
