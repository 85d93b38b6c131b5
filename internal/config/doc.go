// Package config provides the configuration file for upnp-discover.
//
// The file is optional. Its defaults are the SSDP constants the tool is built
// around (multicast group 239.255.255.250:1900, local port 42425, MX 3,
// search target upnp:rootdevice), and any command-line flag overrides the
// value loaded from disk.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/upnp-discover/config.yaml or $HOME/.config/upnp-discover/config.yaml
//   - macOS: $HOME/.config/upnp-discover/config.yaml
//   - Windows: %LOCALAPPDATA%\upnp-discover\config.yaml
//
// # Example
//
//	version: 1
//	discovery:
//	  multicast_address: 239.255.255.250:1900
//	  listen_address: 0.0.0.0:42425
//	  search_target: upnp:rootdevice
//	  mx: 3
//	  buffer_size: 1024
//	  multicast_ttl: 2
//	  max_bursts: 0
//	log:
//	  level: info
package config
