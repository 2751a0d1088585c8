package aha

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/aha/rules"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

const testSID = "a1b2c3d4e5f60718"

// fakeGateway serves the login and home automation endpoints with canned responses per command.
type fakeGateway struct {
	m         sync.Mutex
	responses map[string]string
	requests  []string
	expired   bool
	logins    int
}

func (f *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.m.Lock()
	defer f.m.Unlock()

	q := r.URL.Query()

	switch r.URL.Path {
	case loginPath:
		if q.Get("logout") == "1" {
			f.requests = append(f.requests, "logout")
			return
		}

		if q.Get("response") == "" {
			fmt.Fprint(w, `<SessionInfo><SID>0000000000000000</SID><Challenge>2$10000$5A1711$2000$5A1722</Challenge><BlockTime>0</BlockTime></SessionInfo>`)
			return
		}

		f.logins++

		if q.Get("username") != "admin" || q.Get("response") != "5A1722$1798a1672bca7c6463d6b245f82b53703b0f50813401b03e4045a5861e689adb" {
			fmt.Fprint(w, `<SessionInfo><SID>0000000000000000</SID><Challenge>2$10000$5A1711$2000$5A1722</Challenge><BlockTime>0</BlockTime></SessionInfo>`)
			return
		}

		f.expired = false
		fmt.Fprintf(w, `<SessionInfo><SID>%s</SID><Challenge></Challenge><BlockTime>0</BlockTime></SessionInfo>`, testSID)
	case commandPath:
		verb := q.Get("switchcmd")
		f.requests = append(f.requests, verb)

		if f.expired || q.Get("sid") != testSID {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		resp, found := f.responses[verb]
		if !found {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		fmt.Fprintln(w, resp)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, responses map[string]string) (*Client, *fakeGateway) {
	gw := &fakeGateway{responses: responses}
	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)

	c := New(Config{
		Host:         srv.URL,
		User:         "admin",
		Password:     "1example!",
		BusyInterval: time.Millisecond,
		Now:          func() time.Time { return time.Unix(1000, 0) },
	})

	return c, gw
}

const deviceListXML = `<devicelist version="1">
<device identifier="08761 0000434" id="17" functionbitmask="35712" fwversion="03.33" manufacturer="AVM" productname="FRITZ!DECT 200"><present>1</present><name>Kitchen</name><switch><state>1</state></switch><powermeter><voltage>230000</voltage><power>0</power><energy>1</energy></powermeter><temperature><celsius>215</celsius><offset>0</offset></temperature></device>
<device identifier="09995 0000001" id="18" functionbitmask="320" fwversion="05.16" manufacturer="AVM" productname="FRITZ!DECT 301"><present>1</present><name>Radiator</name><hkr><tist>42</tist><tsoll>44</tsoll><absenk>32</absenk><komfort>44</komfort></hkr></device>
<device functionbitmask="512"><name>Broken</name></device>
<group identifier="grp1" id="900" functionbitmask="512"><present>1</present><name>All</name><switch><state>0</state></switch><groupinfo><masterdeviceid>0</masterdeviceid><members>17</members></groupinfo></group>
</devicelist>`

func TestClient_Command(t *testing.T) {
	t.Run("logs in before the first command", func(t *testing.T) {
		c, gw := newTestClient(t, map[string]string{"getswitchlist": "08761 0000434"})

		resp, err := c.Command(context.Background(), "getswitchlist", "", nil)

		assert.NoError(t, err)
		assert.Equal(t, "08761 0000434", resp)
		assert.Equal(t, 1, gw.logins)
		assert.Equal(t, testSID, c.currentSID())
	})

	t.Run("logs in again once when the session has expired", func(t *testing.T) {
		c, gw := newTestClient(t, map[string]string{"getswitchlist": "08761 0000434"})
		assert.NoError(t, c.Login(context.Background()))

		gw.m.Lock()
		gw.expired = true
		gw.m.Unlock()

		_, err := c.Command(context.Background(), "getswitchlist", "", nil)

		assert.NoError(t, err)
		assert.Equal(t, 2, gw.logins)
		assert.Equal(t, []string{"getswitchlist", "getswitchlist"}, gw.requests)
	})

	t.Run("reports inval as an invalid parameter", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{"sethkrtsoll": "inval"})

		_, err := c.Command(context.Background(), "sethkrtsoll", "09995 0000001", map[string]string{"param": "999"})
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("reports unexpected status codes", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{})

		_, err := c.Command(context.Background(), "getunknown", "", nil)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("returns a login error for bad credentials", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{})
		c.config.Password = "wrong"

		_, err := c.Command(context.Background(), "getswitchlist", "", nil)

		var loginErr *LoginError
		assert.ErrorAs(t, err, &loginErr)
		assert.Equal(t, "admin", loginErr.User)
	})
}

func TestClient_Logout(t *testing.T) {
	t.Run("clears the session", func(t *testing.T) {
		c, gw := newTestClient(t, map[string]string{})
		assert.NoError(t, c.Login(context.Background()))

		assert.NoError(t, c.Logout(context.Background()))
		assert.Equal(t, "", c.currentSID())
		assert.Contains(t, gw.requests, "logout")
	})
}

func TestClient_UpdateDevices(t *testing.T) {
	t.Run("reconciles the device list and raises events", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{"getdevicelistinfos": deviceListXML})

		var added []string
		c.Callbacks().Add(func(ctx context.Context, e DeviceAdded) error {
			added = append(added, e.Device.Identifier)
			return nil
		})

		assert.NoError(t, c.UpdateDevices(context.Background(), true))

		assert.Equal(t, []string{"08761 0000434", "09995 0000001", "grp1"}, added)
		assert.Len(t, c.Devices(), 3)

		d, err := c.Device("09995 0000001")
		assert.NoError(t, err)
		assert.Equal(t, 22.0, *d.Thermostat.Target)

		g, err := c.DeviceByName("All")
		assert.NoError(t, err)
		assert.True(t, g.IsGroup)

		_, err = c.Device("unknown")
		assert.ErrorIs(t, err, ErrUnknownIdentifier)
	})

	t.Run("prunes devices no longer listed", func(t *testing.T) {
		c, gw := newTestClient(t, map[string]string{"getdevicelistinfos": deviceListXML})
		assert.NoError(t, c.UpdateDevices(context.Background(), true))

		var removed []string
		c.Callbacks().Add(func(ctx context.Context, e DeviceRemoved) error {
			removed = append(removed, e.Device.Identifier)
			return nil
		})

		gw.m.Lock()
		gw.responses["getdevicelistinfos"] = `<devicelist version="1"><group identifier="grp1" functionbitmask="512"><present>1</present><name>All</name></group></devicelist>`
		gw.m.Unlock()

		assert.NoError(t, c.UpdateDevices(context.Background(), false))
		assert.Len(t, c.Devices(), 3)

		assert.NoError(t, c.UpdateDevices(context.Background(), true))
		assert.Len(t, c.Devices(), 1)
		assert.Equal(t, []string{"08761 0000434", "09995 0000001"}, removed)
	})

	t.Run("reports an unparseable list", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{"getdevicelistinfos": "<devicelist"})

		err := c.UpdateDevices(context.Background(), false)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("applies busy settings from matching rules", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{"getdevicelistinfos": deviceListXML})

		productName := "FRITZ!DECT 301"
		root := &rules.Rule{
			Children: []*rules.Rule{
				{
					Filter: rules.Filter{ProductName: &productName},
					Settings: map[string]rules.Settings{
						"busy":   {"attempts": 3, "interval": "1s", "wait": false},
						"device": {"room": "Living room"},
					},
				},
			},
		}
		root.PopulateParentage()
		c.config.Rules = root

		assert.NoError(t, c.UpdateDevices(context.Background(), false))

		d, _ := c.Device("09995 0000001")
		assert.Equal(t, 3, d.BusyAttempts)
		assert.Equal(t, time.Second, d.BusyInterval)
		assert.False(t, d.WaitForIdle())
		assert.Equal(t, "Living room", d.Room)

		other, _ := c.Device("08761 0000434")
		assert.Equal(t, c.config.BusyAttempts, other.BusyAttempts)
		assert.True(t, other.WaitForIdle())
		assert.Empty(t, other.Room)

		selected, err := c.Select(`Room == "Living room"`)
		assert.NoError(t, err)
		assert.Equal(t, []*Device{d}, selected)
	})
}

func TestClient_UpdateDevice(t *testing.T) {
	t.Run("refreshes a single device", func(t *testing.T) {
		c, gw := newTestClient(t, map[string]string{"getdevicelistinfos": deviceListXML})
		assert.NoError(t, c.UpdateDevices(context.Background(), false))

		gw.m.Lock()
		gw.responses["getdeviceinfos"] = `<device identifier="08761 0000434" functionbitmask="35712"><present>1</present><name>Kitchen</name><switch><state>0</state></switch></device>`
		gw.m.Unlock()

		assert.NoError(t, c.UpdateDevice(context.Background(), "08761 0000434"))

		d, _ := c.Device("08761 0000434")
		assert.False(t, *d.Switch.State)
	})
}

func TestClient_Busy(t *testing.T) {
	t.Run("reads txbusy from the device info", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{"getdeviceinfos": `<device identifier="1" functionbitmask="0"><txbusy>1</txbusy></device>`})

		busy, err := c.Busy(context.Background(), "1")
		assert.NoError(t, err)
		assert.True(t, busy)
	})
}

func TestClient_TemplatesAndTriggers(t *testing.T) {
	t.Run("reconciles templates and triggers", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{
			"gettemplatelistinfos": `<templatelist version="1"><template identifier="tmp1" functionbitmask="320"><name>Night</name><devices><device identifier="09995 0000001"/></devices></template></templatelist>`,
			"gettriggerlistinfos":  `<triggerlist version="1"><trigger identifier="trg1" active="0"><name>Sunset</name></trigger></triggerlist>`,
		})

		assert.NoError(t, c.UpdateTemplates(context.Background(), true))
		assert.NoError(t, c.UpdateTriggers(context.Background(), true))

		tmpl, err := c.Template("tmp1")
		assert.NoError(t, err)
		assert.Equal(t, []string{"09995 0000001"}, tmpl.Devices)
		assert.Len(t, c.Templates(), 1)

		tr, err := c.Trigger("trg1")
		assert.NoError(t, err)
		assert.False(t, tr.Active)
		assert.Len(t, c.Triggers(), 1)

		_, err = c.Template("tmp2")
		assert.ErrorIs(t, err, ErrUnknownIdentifier)
	})
}

func TestClient_Select(t *testing.T) {
	t.Run("selects devices matching an expression", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{"getdevicelistinfos": deviceListXML})
		assert.NoError(t, c.UpdateDevices(context.Background(), false))

		selected, err := c.Select(`Present && Has("thermostat")`)
		assert.NoError(t, err)
		assert.Len(t, selected, 1)
		assert.Equal(t, "Radiator", selected[0].Name)

		selected, err = c.Select(`Group || Manufacturer == "AVM"`)
		assert.NoError(t, err)
		assert.Len(t, selected, 3)
	})

	t.Run("reports invalid expressions", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{})

		_, err := c.Select(`Present &&`)
		assert.Error(t, err)
	})
}
