// Package harness runs declarative fleet scenarios through the engine.
//
// A scenario is a YAML file describing a distance network, a fleet and the
// trades assigned to it. Trades due at time zero are planned before the
// run; later trades arrive through trade_commit events and are only
// committed when the extended plan stays feasible, mirroring how an
// operator would accept new business mid-voyage.
//
// Every run is logged to a store (an in-memory one unless WithStore is
// given) and the trace is read back from it, so the result reflects exactly
// what was persisted. RunWithGolden compares that trace, in canonical JSON,
// with a golden file under testdata/golden.
//
// Example:
//
//	name: two-trades
//	description: one tanker carries two consecutive trades
//	network:
//	  distances:
//	    - {from: A, to: B, distance: 10}
//	vessels:
//	  - name: terror
//	    location: A
//	    speed: 1
//	    capacities: [{cargo: Oil, capacity: 300000, loading_rate: 5}]
//	trades:
//	  - {id: t1, vessel: terror, origin: A, destination: B, cargo: Oil, amount: 10}
//	expect:
//	  completion: {terror: 14}
package harness
