package tweak

import (
	"fmt"
	"strings"
)

// separator joins several commands into one shell line.
const separator = "; "

func gpuCommand(enabled bool) string {
	if enabled {
		return "setprop debug.composition.type gpu"
	}
	return "setprop debug.composition.type c2d"
}

var animationScales = []string{
	"window_animation_scale",
	"transition_animation_scale",
	"animator_duration_scale",
}

func animationCommand(enabled bool) string {
	value := "1"
	if enabled {
		value = "0"
	}
	cmds := make([]string, len(animationScales))
	for i, s := range animationScales {
		cmds[i] = fmt.Sprintf("settings put global %s %s", s, value)
	}
	return strings.Join(cmds, separator)
}

func dex2oatCommand(enabled bool) string {
	if enabled {
		return "setprop dalvik.vm.dex2oat-filter speed"
	}
	return "setprop dalvik.vm.dex2oat-filter speed-profile"
}

func ramCommand(enabled bool) string {
	if enabled {
		return "settings put global low_power 0"
	}
	return ""
}

func touchCommand(enabled bool) string {
	if enabled {
		return "settings put system pointer_speed 7"
	}
	return "settings put system pointer_speed 1"
}

func overlayCommand(enabled bool) string {
	if enabled {
		return "service call SurfaceFlinger 1008 i32 1"
	}
	return "service call SurfaceFlinger 1008 i32 0"
}

func dozeCommand(enabled bool) string {
	if enabled {
		return "dumpsys deviceidle force-idle"
	}
	return "dumpsys deviceidle unforce"
}

// thermalServices are init service names used by various vendors.
var thermalServices = []string{
	"mi_thermald",
	"vendor.thermal-hal-2-0.mtk",
	"vendor.thermal.hal",
	"thermal",
	"thermal-managers",
	"thermal_manager",
	"thermal_mnt_hal_service",
	"thermal-engine",
	"thermalloadalgod",
	"thermalservice",
	"thermal-hal",
	"vendor.thermal-symlinks",
	"android.thermal-hal",
	"vendor.thermal-hal",
	"vendor-thermal-hal-1-0",
	"vendor.thermal-hal-1-0",
	"vendor.thermal-hal-2-0",
}

// ThermalServices returns the service names the thermal tweak controls.
func ThermalServices() []string {
	out := make([]string, len(thermalServices))
	copy(out, thermalServices)
	return out
}

func thermalCommand(enabled bool) string {
	var b strings.Builder
	if enabled {
		for _, s := range thermalServices {
			fmt.Fprintf(&b, "stop %s; setprop init.svc.%s stopped; ", s, s)
		}
		b.WriteString("setprop dalvik.vm.dexopt.thermal-cutoff 0; ")
		b.WriteString("echo N > /sys/module/msm_thermal/parameters/enabled")
		return b.String()
	}
	for _, s := range thermalServices {
		fmt.Fprintf(&b, "start %s; ", s)
	}
	b.WriteString("setprop dalvik.vm.dexopt.thermal-cutoff 1; ")
	b.WriteString("echo Y > /sys/module/msm_thermal/parameters/enabled")
	return b.String()
}

// identityProp is one system property rewritten by the FPS unlock.
type identityProp struct {
	name  string
	value string
}

const (
	spoofModel  = "SM-F9460"
	spoofDevice = "q5q"
	spoofName   = "Galaxy Z Fold5"
)

var identityProps = []identityProp{
	{"ro.product.brand", "samsung"},
	{"ro.product.manufacturer", "samsung"},
	{"ro.product.model", spoofModel},
	{"ro.product.odm.model", spoofModel},
	{"ro.product.system.model", spoofModel},
	{"ro.product.vendor.model", spoofModel},
	{"ro.product.system_ext.model", spoofModel},
	{"ro.product.vendor.cert", spoofModel},
	{"ro.product.Aliases", spoofModel},
	{"ro.build.tf.modelnumber", spoofModel},
	{"ro.product.device", spoofDevice},
	{"ro.build.product", spoofDevice},
	{"ro.build.flavor", spoofDevice + "-user"},
	{"ro.build.description", "q5q-user 13 TP1A.220624.014 F9460XXU1AWD1 release-keys"},
	{"ro.product.name", spoofName},
	{"ro.product.odm.name", spoofName},
	{"ro.product.vendor.name", spoofName},
	{"ro.product.system_ext.name", spoofName},
	{"ro.product.system.name", spoofName},
	{"ro.product.product.name", spoofName},
	{"ro.product.marketname", spoofName},
	{"ro.product.odm.marketname", spoofName},
	{"ro.product.product.marketname", spoofName},
	{"ro.product.system.marketname", spoofName},
	{"ro.product.system_ext.marketname", spoofName},
	{"ro.product.vendor.marketname", spoofName},
	{"ro.soc.manufacturer", "Qualcomm"},
	{"ro.soc.model", "SM8650"},
	{"ro.product.board", "SM8650"},
	{"ro.board.platform", "kalama"},
	{"sys.fps_unlock_allowed", "120"},
	{"persist.sys.pinner.enabled", "true"},
}

// fpsUnlockCommand rewrites device identity properties. Disabling has no
// command: the original values are not recorded, so only a reboot reverts it.
func fpsUnlockCommand(enabled bool) string {
	if !enabled {
		return ""
	}
	cmds := make([]string, len(identityProps))
	for i, p := range identityProps {
		cmds[i] = fmt.Sprintf("resetprop %s %s", p.name, shellQuote(p.value))
	}
	return strings.Join(cmds, separator)
}

// shellQuote single-quotes s when it contains characters the shell would split on.
func shellQuote(s string) string {
	if !strings.ContainsAny(s, " \t'\"$`\\;&|<>()") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
