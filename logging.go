package aha

import (
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"log"
)

func (c *Client) WithGoLogger(parentLogger *log.Logger) {
	c.WithLogWrapLogger(logwrap.New(golog.Wrap(parentLogger)))
}

func (c *Client) WithLogWrapLogger(lw logwrap.Logger) {
	c.logger = lw
	c.devices.logger = lw
	c.templates.logger = lw
	c.triggers.logger = lw
}
