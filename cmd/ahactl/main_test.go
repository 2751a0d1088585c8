package main

import (
	"bytes"
	"context"
	"fmt"
	"github.com/shimmeringbee/aha"
	"github.com/shimmeringbee/aha/rules"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
)

var testLogger = logwrap.New(discard.Discard())

func newTestClient(t *testing.T, commands *[]string) *aha.Client {
	return newTestClientWithRules(t, commands, nil)
}

func newTestClientWithRules(t *testing.T, commands *[]string, r *rules.Rule) *aha.Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login_sid.lua" {
			fmt.Fprint(w, `<SessionInfo><SID>0123456789abcdef</SID><Challenge>1234567z</Challenge><BlockTime>0</BlockTime></SessionInfo>`)
			return
		}

		cmd := r.URL.Query().Get("switchcmd")
		*commands = append(*commands, cmd)

		switch cmd {
		case "getdevicelistinfos":
			fmt.Fprint(w, `<devicelist version="1"><device identifier="08761 0000434" functionbitmask="35712" productname="FRITZ!DECT 200"><present>1</present><name>Kitchen</name><switch><state>0</state></switch></device></devicelist>`)
		case "getdeviceinfos":
			fmt.Fprint(w, `<device identifier="08761 0000434" functionbitmask="35712"><txbusy>0</txbusy></device>`)
		case "setswitchon":
			fmt.Fprint(w, "1")
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	return aha.New(aha.Config{Host: srv.URL, User: "admin", Password: "secret", Rules: r})
}

func TestRun(t *testing.T) {
	t.Run("lists devices with their capabilities", func(t *testing.T) {
		var commands []string
		out := &bytes.Buffer{}

		err := run(context.Background(), newTestClient(t, &commands), testLogger, []string{"list"}, out)

		assert.NoError(t, err)
		assert.Equal(t, "08761 0000434\tKitchen\tFRITZ!DECT 200\tpresent=true\tpower_meter,temperature,switch\n", out.String())
	})

	t.Run("switches a device on and waits until it is idle", func(t *testing.T) {
		var commands []string

		err := run(context.Background(), newTestClient(t, &commands), testLogger, []string{"switch", "on", "08761 0000434"}, &bytes.Buffer{})

		assert.NoError(t, err)
		assert.Equal(t, []string{"getdevicelistinfos", "setswitchon", "getdeviceinfos"}, commands)
	})

	t.Run("does not wait when a rule disables it", func(t *testing.T) {
		var commands []string

		r := &rules.Rule{Settings: map[string]rules.Settings{"busy": {"wait": false}}}
		r.PopulateParentage()

		err := run(context.Background(), newTestClientWithRules(t, &commands, r), testLogger, []string{"switch", "on", "08761 0000434"}, &bytes.Buffer{})

		assert.NoError(t, err)
		assert.Equal(t, []string{"getdevicelistinfos", "setswitchon"}, commands)
	})

	t.Run("prints the device name", func(t *testing.T) {
		var commands []string
		out := &bytes.Buffer{}

		err := run(context.Background(), newTestClient(t, &commands), testLogger, []string{"name", "08761 0000434"}, out)

		assert.NoError(t, err)
		assert.Equal(t, "Kitchen\n", out.String())
	})

	t.Run("reports unknown devices", func(t *testing.T) {
		var commands []string

		err := run(context.Background(), newTestClient(t, &commands), testLogger, []string{"present", "00000 0000000"}, &bytes.Buffer{})
		assert.ErrorIs(t, err, aha.ErrUnknownIdentifier)
	})

	t.Run("returns usage for unknown or incomplete commands", func(t *testing.T) {
		var commands []string
		client := newTestClient(t, &commands)

		assert.ErrorIs(t, run(context.Background(), client, testLogger, nil, &bytes.Buffer{}), errUsage)
		assert.ErrorIs(t, run(context.Background(), client, testLogger, []string{"dance"}, &bytes.Buffer{}), errUsage)
		assert.ErrorIs(t, run(context.Background(), client, testLogger, []string{"switch", "on"}, &bytes.Buffer{}), errUsage)
	})
}
