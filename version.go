package unicase

import "pkt.systems/version"

// Version returns the current module version (best effort).
func Version() string {
	return moduleVersion(modulePath)
}

const modulePath = "pkt.systems/unicase"

var moduleVersion = version.ModuleVersion
