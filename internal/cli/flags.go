package cli

// flagReader is the subset of *pflag.FlagSet the commands read from.
type flagReader interface {
	Changed(name string) bool
	GetString(name string) (string, error)
	GetInt(name string) (int, error)
	GetBool(name string) (bool, error)
}

// overrideString copies a flag into dst only when the user set it, so
// config file and environment values survive otherwise.
func overrideString(flags flagReader, name string, dst *string) {
	if !flags.Changed(name) {
		return
	}
	if v, err := flags.GetString(name); err == nil {
		*dst = v
	}
}

func overrideInt(flags flagReader, name string, dst *int) {
	if !flags.Changed(name) {
		return
	}
	if v, err := flags.GetInt(name); err == nil {
		*dst = v
	}
}

func overrideBool(flags flagReader, name string, dst *bool) {
	if !flags.Changed(name) {
		return
	}
	if v, err := flags.GetBool(name); err == nil {
		*dst = v
	}
}
