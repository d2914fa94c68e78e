// Package harness runs conformance scenarios against the engine.
//
// A scenario is a YAML file listing accounts, signed operation steps with
// their expected outcome, and assertions on the final state. Run executes
// it on a fresh in-memory store with a fixed clock and a recording issuer,
// and returns a trace of every step together with the issuances the step
// committed. Traces are compared byte for byte with golden files.
//
// A minimal scenario:
//
//	name: join_pays_referral
//	description: inviter and invited are rewarded
//	accounts: [alice, bob]
//	steps:
//	  - op: create_community
//	    as: [alice]
//	    args: {symbol: "4,BES", creator: alice, name: Bespiral,
//	           inviter_reward: "1.0000 BES", invited_reward: "2.0000 BES"}
//	  - op: join
//	    as: [alice]
//	    args: {community: "4,BES", new_user: bob, inviter: alice}
//	assertions:
//	  - {type: member, community: "4,BES", account: bob, is_member: true}
package harness
