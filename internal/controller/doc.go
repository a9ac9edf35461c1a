// Package controller provides a REST client for a network controller's
// northbound API.
//
// The client logs in once with basic credentials, keeps the returned token for
// every following call and decodes JSON responses into Object documents. An
// Object keeps every field the controller sent, so a fetched document can be
// edited in place and sent back without losing fields this tool never reads.
//
// # Usage Example
//
//	client := controller.NewClient("dnac.example.net")
//	if err := client.Login(ctx, "admin", password); err != nil {
//	    return err
//	}
//
//	resp, err := client.Get(ctx, "data/customer-facing-service/DeviceInfo",
//	    controller.WithVersion("v2"),
//	    controller.WithParam("name", "edge-1"),
//	)
//	if err != nil {
//	    return err
//	}
//	deviceInfo := resp.Items()[0]
//
// # Tasks
//
// Mutating calls return a task id. WaitOnTask polls the task with a growing
// interval until it ends, fails or times out:
//
//	task, err := client.WaitOnTask(ctx, taskID, controller.DefaultTaskOptions())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("completed in %s\n", task.Elapsed())
//
// # Searching Documents
//
// Find walks nested arrays of a document looking for an object with a given
// field value. Lookup searches a flat list and treats an empty name as "not
// requested".
//
// # Error Handling
//
// Every failure is an *APIError with an ErrorType. HTTP failures carry the
// controller's own reason (errorCode, message and detail joined by ": ")
// when the body provides one. Use the IsXxx predicates or errors.As to
// inspect errors, and GetTroubleshootingHint for operator advice.
package controller
