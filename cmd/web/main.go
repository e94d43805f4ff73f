// @title           Eventify API
// @version         1.0
// @description     Event ticketing backend with remote image ingestion.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8000
// @BasePath        /

package main

import "eventify_backend/internal/app"

func main() {
	app.Run()
}
