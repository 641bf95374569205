// Package activity submits bookings to the activity-management REST API.
//
// Every submission follows the same exchange: obtain a session token,
// POST the task document as XML, release the token. The backend reports
// domain refusals (conflicts, unavailable resources) inside an otherwise
// successful response, so the echoed document is inspected for error
// markers before a submission counts as accepted.
package activity
