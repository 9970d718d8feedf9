// Package attackpatterns is a static catalogue of known smart-contract
// attack patterns paired with defensive invariants, used to flag code
// that resembles a historical exploit and to bucket severity by CVSS.
package attackpatterns

import (
	"sort"
	"strings"
)

// Severity buckets a CVSS score per spec.md's thresholds.
type Severity string

const (
	Critical Severity = "critical"
	High     Severity = "high"
	Medium   Severity = "medium"
	Low      Severity = "low"
)

// SeverityForCVSS buckets a CVSS score: >=9.0 Critical, >=7.0 High,
// >=5.0 Medium, else Low.
func SeverityForCVSS(score float32) Severity {
	switch {
	case score >= 9.0:
		return Critical
	case score >= 7.0:
		return High
	case score >= 5.0:
		return Medium
	default:
		return Low
	}
}

// Pattern is one known attack with its defensive invariants.
type Pattern struct {
	ID                  string
	Name                string
	Description         string
	Year                int
	Incidents           []string
	VulnerablePatterns  []string
	DefensiveInvariants []string
	AffectedChains      []string
	CVSSScore           float32
}

// SeverityOf returns the CVSS-bucketed severity of p.
func (p Pattern) SeverityOf() Severity { return SeverityForCVSS(p.CVSSScore) }

// AffectsChain reports whether p lists chain among its affected chains.
func (p Pattern) AffectsChain(chain string) bool {
	for _, c := range p.AffectedChains {
		if c == chain {
			return true
		}
	}
	return false
}

var catalogue = []Pattern{
	{
		ID:          "reentrancy",
		Name:        "Reentrancy",
		Description: "Attacker calls back into contract during execution, modifying state before previous execution completes",
		Year:        2016,
		Incidents:   []string{"The DAO (2016) - $50M loss"},
		VulnerablePatterns: []string{
			"transfer_funds(); /* state update after */",
			"transfer(amount)",
			"delegatecall",
			"state update AFTER external call",
			"payable(msg.sender).transfer",
			"call.value()() without checking re-entry",
			"state_change_after_external_call",
		},
		DefensiveInvariants: []string{
			"state_update_before_external_call",
			"mutex_lock_during_transfer",
			"checks_effects_interactions_order",
			"balance_matches_sum_before_and_after",
		},
		AffectedChains: []string{"evm"},
		CVSSScore:      9.8,
	},
	{
		ID:          "integer_overflow",
		Name:        "Integer Overflow/Underflow",
		Description: "Arithmetic operations exceed max/min bounds, wrapping to opposite extreme",
		Year:        2018,
		Incidents: []string{
			"BEC Token (2018) - $7.6M frozen",
			"BeautyChain (2018) - batch transfer bug",
		},
		VulnerablePatterns: []string{
			"unchecked_addition",
			"unchecked_subtraction",
			"balance + amount without overflow check",
		},
		DefensiveInvariants: []string{
			"addition_with_overflow_check",
			"subtraction_with_underflow_check",
			"total_supply_constant",
			"balance_never_negative",
		},
		AffectedChains: []string{"evm", "move"},
		CVSSScore:      8.5,
	},
	{
		ID:          "access_control_bypass",
		Name:        "Access Control Bypass",
		Description: "Attacker circumvents permission checks to perform privileged operations",
		Year:        2017,
		Incidents:   []string{"Parity Wallet (2017) - $30M frozen"},
		VulnerablePatterns: []string{
			"missing_require(is_owner())",
			"tx.origin != msg.sender",
			"no_signature_validation",
			"public_function_without_auth",
		},
		DefensiveInvariants: []string{
			"only_owner_can_transfer",
			"multisig_required_for_critical_ops",
			"all_privileged_ops_checked",
			"authorization_before_state_change",
		},
		AffectedChains: []string{"evm", "solana", "move"},
		CVSSScore:      9.9,
	},
	{
		ID:          "flash_loan",
		Name:        "Flash Loan Attack",
		Description: "Attacker borrows large amount in single transaction to manipulate price",
		Year:        2020,
		Incidents: []string{
			"bZx (2020) - $350K + $600K losses",
			"Harvest Finance (2020) - $34M loss",
		},
		VulnerablePatterns: []string{
			"price_oracle_single_source",
			"no_price_validation",
			"lending_without_collateral_check",
		},
		DefensiveInvariants: []string{
			"price_from_multiple_sources",
			"collateral_check_before_lending",
			"price_deviation_limits",
			"no_same_block_operations",
		},
		AffectedChains: []string{"evm"},
		CVSSScore:      8.7,
	},
	{
		ID:          "frontrunning",
		Name:        "Frontrunning / MEV Extraction",
		Description: "Attacker observes pending transaction and places own transaction first",
		Year:        2018,
		Incidents:   []string{"General vulnerability since Ethereum inception"},
		VulnerablePatterns: []string{
			"price_depends_on_order",
			"state_visible_in_mempool",
			"no_slippage_protection",
		},
		DefensiveInvariants: []string{
			"slippage_limits_enforced",
			"atomic_swap_no_intermediate_states",
			"timestamp_deadline_checks",
			"sorted_by_priority_not_order",
		},
		AffectedChains: []string{"evm"},
		CVSSScore:      7.5,
	},
	{
		ID:          "type_confusion",
		Name:        "Type Confusion / Implicit Conversion",
		Description: "Implicit type conversions cause incorrect comparisons or operations",
		Year:        2019,
		Incidents:   []string{"Multiplier Finance (2021) - $1M loss"},
		VulnerablePatterns: []string{
			"implicit_type_conversion",
			"comparison_different_types",
			"address_to_uint_conversion",
		},
		DefensiveInvariants: []string{
			"no_implicit_conversions",
			"explicit_type_matching_required",
			"type_checked_before_comparison",
		},
		AffectedChains: []string{"evm"},
		CVSSScore:      7.2,
	},
	{
		ID:          "delegatecall_misuse",
		Name:        "Delegatecall to Untrusted Code",
		Description: "Contract delegatecalls to address that can be controlled by attacker",
		Year:        2016,
		Incidents:   []string{"King of the Ether (2016) - theft of contract funds"},
		VulnerablePatterns: []string{
			"delegatecall(attacker_address)",
			"delegatecall_to_user_input",
			"no_validation_before_delegatecall",
		},
		DefensiveInvariants: []string{
			"delegatecall_target_hardcoded",
			"delegatecall_target_audited",
			"no_delegatecall_to_untrusted",
			"delegatecall_results_validated",
		},
		AffectedChains: []string{"evm"},
		CVSSScore:      9.8,
	},
	{
		ID:          "timestamp_dependence",
		Name:        "Timestamp Dependence",
		Description: "Miner/validator can manipulate block timestamp for advantage",
		Year:        2015,
		Incidents:   []string{"Various lottery and randomness exploits"},
		VulnerablePatterns: []string{
			"random_number = block.timestamp",
			"critical_logic_depends_on_block.timestamp",
			"no_time_bounds_checking",
		},
		DefensiveInvariants: []string{
			"no_randomness_from_timestamp",
			"randomness_from_external_oracle",
			"time_bounds_enforced",
			"timestamp_within_reasonable_bounds",
		},
		AffectedChains: []string{"evm"},
		CVSSScore:      6.5,
	},
}

// DB is the in-memory attack-pattern database, keyed by pattern ID.
type DB struct {
	patterns map[string]Pattern
	order    []string // pattern IDs in ascending order, to match BTreeMap iteration
}

// NewDB builds the database from the static catalogue.
func NewDB() *DB {
	db := &DB{patterns: make(map[string]Pattern, len(catalogue))}
	for _, p := range catalogue {
		db.patterns[p.ID] = p
	}
	db.order = make([]string, 0, len(db.patterns))
	for id := range db.patterns {
		db.order = append(db.order, id)
	}
	sort.Strings(db.order)
	return db
}

// AllPatterns returns every pattern, ordered by ID.
func (db *DB) AllPatterns() []Pattern {
	out := make([]Pattern, 0, len(db.order))
	for _, id := range db.order {
		out = append(out, db.patterns[id])
	}
	return out
}

// PatternsForChain returns every pattern affecting chain, ordered by ID.
func (db *DB) PatternsForChain(chain string) []Pattern {
	var out []Pattern
	for _, id := range db.order {
		p := db.patterns[id]
		if p.AffectsChain(chain) {
			out = append(out, p)
		}
	}
	return out
}

// GetPattern looks up a pattern by ID.
func (db *DB) GetPattern(id string) (Pattern, bool) {
	p, ok := db.patterns[id]
	return p, ok
}

// CheckCode reports every vulnerable pattern literal of attackID found
// in code, as one human-readable issue string per vulnerable pattern
// literal found (repeated occurrences of a literal are reported once).
func (db *DB) CheckCode(code, attackID string) []string {
	pattern, ok := db.GetPattern(attackID)
	if !ok {
		return nil
	}
	var issues []string
	for _, vuln := range pattern.VulnerablePatterns {
		if strings.Contains(code, vuln) {
			issues = append(issues, "found vulnerable pattern '"+vuln+"' from "+pattern.Name+" attack")
		}
	}
	return issues
}
