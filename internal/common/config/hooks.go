package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CustomHooks decode durations, comma-separated slices and any type implementing
// encoding.TextUnmarshaler (e.g., policy and decision mode names).
var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	),
}
