package aha

import (
	"context"
	"github.com/shimmeringbee/aha/capability"
)

// Template is a set of settings stored on the gateway that can be applied to its member devices in one go.
type Template struct {
	capability.Device

	Devices      []string
	SubTemplates []string

	ApplyHKRSummer      bool
	ApplyHKRTemperature bool
	ApplyHKRHolidays    bool
	ApplyHKRTimeTable   bool
	ApplyRelayManual    bool
	ApplyRelayAutomatic bool
	ApplyLevel          bool
	ApplyColor          bool
	ApplyDialHelper     bool
	ApplySubTemplates   bool
}

func newTemplate(gw capability.Gateway) *Template {
	t := &Template{}
	t.Gateway = gw
	return t
}

func (t *Template) Update(n *capability.Node) error {
	entity, err := capability.DecodeEntity(n)
	if err != nil {
		return err
	}

	t.Write(func() {
		t.Entity = entity

		mask := n.Child("applymask")
		t.ApplyHKRSummer = mask.Child("hkr_summer") != nil
		t.ApplyHKRTemperature = mask.Child("hkr_temperature") != nil
		t.ApplyHKRHolidays = mask.Child("hkr_holidays") != nil
		t.ApplyHKRTimeTable = mask.Child("hkr_time_table") != nil
		t.ApplyRelayManual = mask.Child("relay_manual") != nil
		t.ApplyRelayAutomatic = mask.Child("relay_automatic") != nil
		t.ApplyLevel = mask.Child("level") != nil
		t.ApplyColor = mask.Child("color") != nil
		t.ApplyDialHelper = mask.Child("dialhelper") != nil
		t.ApplySubTemplates = mask.Child("sub_templates") != nil

		t.Devices = identifiers(n.Child("devices").ChildrenNamed("device"))
		t.SubTemplates = identifiers(n.Child("sub_templates").ChildrenNamed("template"))
	})

	return nil
}

func (t *Template) Apply(ctx context.Context, wait bool) error {
	_, err := t.Send(ctx, "applytemplate", nil, wait)
	return err
}

func identifiers(nodes []*capability.Node) []string {
	var ids []string

	for _, n := range nodes {
		if id, found := n.Attr("identifier"); found {
			ids = append(ids, id)
		}
	}

	return ids
}
