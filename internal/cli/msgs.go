package cli

// Command descriptions
const (
	MsgRootShort = "Remove a device and its entities from the Home Assistant registry"
	MsgRootLong  = `hasscleanup deletes one device from core.device_registry, together with every
entity in core.entity_registry that references it.

Run it against the .storage directory of a stopped Home Assistant instance.
Both registry files are backed up to <file>.<unix-timestamp>.bak before they
are rewritten, unless --skip-backup is given.`
	MsgRootExample = `  # Preview what would be removed
  hasscleanup -d /config/.storage -i 3f2a9c0d4e -n

  # Remove the device
  hasscleanup -d /config/.storage -i 3f2a9c0d4e`

	MsgDevicesShort = "List devices and how many entities reference them"
	MsgDevicesLong  = "Devices loads both registries read-only and prints every device with its entity count."
	MsgConfigShort  = "Print the effective configuration"
	MsgConfigLong   = "Config prints the configuration after defaults, config file, environment and flags are merged."

	MsgCompletionShort = "Generate a shell completion script"
	MsgCompletionLong  = `Generate a completion script for bash, zsh, fish or powershell.

  # bash
  source <(hasscleanup completion bash)

  # zsh
  hasscleanup completion zsh > "${fpath[1]}/_hasscleanup"`

	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"
)

// Flag descriptions
const (
	MsgFlagDirectory  = "Directory holding core.device_registry and core.entity_registry (default: current dir)"
	MsgFlagDeviceID   = "ID of the device to remove"
	MsgFlagDryRun     = "Report what would be removed without writing anything"
	MsgFlagDebug      = "Debug output: DEBUG log level, matched indices and written JSON"
	MsgFlagSkipBackup = "Do not back up the registry files before rewriting them"
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Config file (TOML or YAML)"
	MsgFlagOutput     = "Output format: auto, term, text or json"
	MsgFlagFormat     = "Config output format: toml or yaml"
	MsgFlagDefaults   = "Print the built-in defaults file instead"
)

// Version output
const (
	MsgVersionFormat = "hasscleanup version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"
)
