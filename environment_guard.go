package gekko

import (
	"fmt"
	"reflect"
)

// EnvironmentTag marks that an environment source has been installed into the
// App. Only one source may feed the environment store.
type EnvironmentTag struct {
	Name string
}

// ensureSingleEnvironment panics when any second environment source is
// installed, including a repeat of the same one: each source adds its own
// Panorama and Store resources.
func ensureSingleEnvironment(app *App, name string) {
	if app == nil {
		panic("ensureSingleEnvironment: app is nil")
	}
	t := reflect.TypeOf((*EnvironmentTag)(nil)).Elem()
	if res, ok := app.resources[t]; ok {
		if tag, ok2 := res.(*EnvironmentTag); ok2 {
			msg := fmt.Sprintf("Multiple environment sources installed: %s and %s", tag.Name, name)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
		panic("EnvironmentTag resource present with unexpected type")
	}
	app.addResources(&EnvironmentTag{Name: name})
}
