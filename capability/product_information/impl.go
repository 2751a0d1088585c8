package product_information

import (
	"context"
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
)

var _ capability.Decoder = (*Implementation)(nil)
var _ capabilities.ProductInformation = (*Implementation)(nil)
var _ da.BasicCapability = (*Implementation)(nil)

type Implementation struct {
	d  *capability.Device
	pi *capabilities.ProductInfo
}

func NewProductInformation(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

func (i *Implementation) ImplName() string {
	return "AHAProductInformation"
}

func (i *Implementation) Capability() da.Capability {
	return capabilities.ProductInformationFlag
}

func (i *Implementation) Name() string {
	return capabilities.StandardNames[capabilities.ProductInformationFlag]
}

func (i *Implementation) Supported() bool {
	return true
}

// Decode takes the serial from the device part of the identifier, nothing is attached if every field is empty.
func (i *Implementation) Decode(n *capability.Node) {
	serial, _ := i.d.DeviceAndUnitID()

	pi := &capabilities.ProductInfo{
		Manufacturer: n.AttrOr("manufacturer", ""),
		Name:         n.AttrOr("productname", ""),
		Version:      n.AttrOr("fwversion", ""),
		Serial:       serial,
	}

	if pi.Manufacturer == "" && pi.Name == "" && pi.Version == "" {
		i.pi = nil
		return
	}

	i.pi = pi
}

// Known reports if any product information has been decoded, the caller must hold the device lock.
func (i *Implementation) Known() bool {
	return i.pi != nil
}

func (i *Implementation) Get(_ context.Context) (capabilities.ProductInfo, error) {
	var pi capabilities.ProductInfo
	var err error

	i.d.Read(func() {
		if i.pi == nil {
			err = capability.ErrDeviceDoesNotHaveCapability
			return
		}

		pi = *i.pi
	})

	return pi, err
}
