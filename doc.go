// Package petkit provides a Go client library for the PetKit cloud API.
//
// The library authenticates against the regional PetKit gateway and keeps a
// live view of every device and pet on the account: feeders, litter boxes,
// water fountains, air purifiers, plus per-pet statistics derived from the
// litter box data.
//
// # Authentication
//
// Clients authenticate with the account credentials. The regional gateway is
// resolved automatically from the configured region:
//
//	client, err := petkit.NewClient("user@example.com", "password", "de", "Europe/Berlin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Login happens lazily on the first authenticated call; accounts with
// two-step verification request a code first:
//
//	err := client.RequestLoginCode(ctx)
//	err = client.Login(ctx, "123456")
//
// # Refreshing device data
//
// One call runs the full aggregation cycle and populates the entity map:
//
//	if err := client.RefreshAllDeviceData(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	for id, entity := range client.Entities() {
//	    fmt.Printf("%d: %s\n", id, entity.EntityKind())
//	}
//
// Entities are concrete types behind the Entity interface:
//
//	if litter, ok := entity.(*petkit.Litter); ok {
//	    fmt.Println(litter.Name, litter.State.LitterPercent)
//	}
//
// Pets carry statistics reconciled from the litter data after each cycle:
//
//	for _, pet := range client.ListPets() {
//	    if pet.LastLitterUsage != nil {
//	        fmt.Printf("%s last used %s at %d\n", pet.PetName, *pet.LastDeviceUsed, *pet.LastLitterUsage)
//	    }
//	}
//
// # Controlling devices
//
// Device commands go through SendAPIRequest:
//
//	err := client.SendAPIRequest(ctx, feederID, petkit.ActionManualFeed, map[string]any{
//	    "amount": 10,
//	    "day":    "20250115",
//	    "time":   "-1",
//	})
//
// # Live events
//
// The account's IoT broker pushes device events ahead of the polling API:
//
//	listener, err := client.ListenIotEvents(ctx, func(topic string, payload []byte) {
//	    _ = client.RefreshAllDeviceData(context.Background())
//	})
//	defer listener.Close()
//
// # Error Handling
//
// Errors from the API are typed and matchable with errors.Is:
//
//	err := client.RefreshAllDeviceData(ctx)
//	if petkit.IsAuthenticationError(err) {
//	    // bad credentials or unregistered email
//	}
//	var apiErr *petkit.APIError
//	if errors.As(err, &apiErr) {
//	    fmt.Printf("API error %d: %s\n", apiErr.Code, apiErr.Message)
//	}
package petkit
