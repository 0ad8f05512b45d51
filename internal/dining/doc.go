// Package dining provides an HTTP client for the DineOnCampus public API.
//
// # Overview
//
// The client reads four endpoints, all templated on ids returned by the one
// before it:
//
//   - GET /sites/public                                  schools
//   - GET /locations/status_by_site?siteId={school}      locations
//   - GET /locations/{loc}/periods/?date={YYYY-MM-DD}    periods
//   - GET /locations/{loc}/menu?date={day}&period={id}   menu
//
// Every list endpoint may answer with a bare array or with an object that
// wraps the array ({"sites": [...]}, {"locations": [...]}, {"periods": [...]}).
// List accepts both shapes.
//
// # Two Error Policies
//
// The refresh path uses FetchJSON, FetchPeriods and FetchMenu. These never
// return errors: transport failures, non-200 statuses and unparseable bodies
// are logged and reported as an empty mapping. Consumers must therefore treat
// an empty or missing field as "no data yet".
//
// The setup wizard uses GetJSON, Schools, Locations and Periods, which return
// wrapped errors so the wizard can show a form error and let the user retry:
//
//   - "execute request: dial tcp: connection refused"
//   - "api /sites/public returned status 500: ..."
//   - "decode response: invalid character ..."
//
// # Identifiers
//
// The API is not consistent about id types. Bodies are decoded with
// json.Decoder.UseNumber and String converts numeric ids to their decimal
// text, so every id in this package is a string.
//
// # Testing Considerations
//
// Point NewClient at an httptest.Server URL; the base path is preserved, so
// a server mounted under a prefix works too.
package dining
