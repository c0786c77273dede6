// Package stamper runs one configuration pass: it loads the project settings,
// captures the build instant once, stamps every selected variant from that
// instant and writes the result for the build system.
package stamper
