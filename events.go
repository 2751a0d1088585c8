package aha

type DeviceAdded struct {
	Device *Device
}

type DeviceRemoved struct {
	Device *Device
}

type TemplateAdded struct {
	Template *Template
}

type TemplateRemoved struct {
	Template *Template
}

type TriggerAdded struct {
	Trigger *Trigger
}

type TriggerRemoved struct {
	Trigger *Trigger
}
