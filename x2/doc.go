// Package x2 provides a client for the X2 CRM REST API.
//
// Besides thin wrappers for records, actions, tags and dropdowns, the
// client verifies free-form field submissions against the live schema of
// the target entity before writing them.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := x2.NewClient(
//		"https://crm.example.com/index.php/api2",
//		"api-user",
//		"api-key",
//		logger,
//		x2.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	submitted := x2.NewFields().
//		With("first", "Jane").
//		With("lastName", "Doe").
//		With("email", "jane@example.com")
//
//	res, err := client.CreateContact(ctx, submitted, x2.Mapper{"first": "firstName"}, true)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !res.Written() {
//		// res.MissingRequired explains why
//	}
//
// # Verification
//
// Every write fetches the entity's field schema and sorts the submitted
// keys into Verified and Ignored. Unknown field names and, optionally,
// dropdown values outside the field's option set are ignored with a
// reason. String values that survive are passed through an HTML sanitizer
// unless the client was created with WithPurify(false). Missing required
// fields are reported as data rather than as an error.
//
// # Error Handling
//
//   - TransportError: network failure or non-2xx response, with the status
//   - DecodeError: the response was not the JSON the operation expected
//   - ErrInvalidArgument: the caller passed a nil list or a record with no ID
//   - ErrIncompleteWrite: a contact write returned no ID
//
// No operation retries. Multi-request operations such as ResetAllDupeCheck
// and GetContactsByEmails are not atomic.
package x2
