package engine

import (
	"github.com/pefman/fffa-arena/internal/catalog"
	"github.com/pefman/fffa-arena/internal/hexgrid"
	"github.com/pefman/fffa-arena/internal/synergy"
)

// Flat bonuses every Tank gets regardless of synergy.
const (
	TankArmor           = 15
	TankDamageReduction = 10

	BaseCritDamage = 150
	ManaToCast     = 100
)

// Side tells which army a unit fights for. Only Attacker units receive
// synergy bonuses.
type Side int

const (
	Attacker Side = iota
	Defender
)

func (s Side) String() string {
	if s == Attacker {
		return "attacker"
	}
	return "defender"
}

// CombatUnit is the per-battle instance of an owned unit.
type CombatUnit struct {
	ID      string
	Faction catalog.Faction
	Role    catalog.Role
	Cost    int
	Ability catalog.Ability

	Hex     hexgrid.Hex
	Side    Side
	Stars   int
	OwnerID int

	MaxHP           int
	HP              int
	Attack          int
	Speed           float64
	Range           int
	Armor           float64
	DamageReduction float64
	CritChance      float64
	CritDamage      float64
	Lifesteal       float64

	Mana           int
	MaxMana        int
	StatusEffects  []string
	ActionCooldown float64
	MoveCooldown   float64
}

func (u *CombatUnit) Alive() bool { return u.HP > 0 }

// UnitSpec is the input to NewCombatUnit.
type UnitSpec struct {
	ID      string
	Hex     hexgrid.Hex
	Side    Side
	Bonuses synergy.Bonuses
	Stars   int
	OwnerID int
}

// NewCombatUnit derives combat stats for one unit. The second result is
// false when the id is not in the catalog.
func NewCombatUnit(cat *catalog.Catalog, spec UnitSpec) (*CombatUnit, bool) {
	data, ok := cat.Lookup(spec.ID)
	if !ok {
		return nil, false
	}
	stars := spec.Stars
	if stars < 1 {
		stars = 1
	}
	mult := catalog.StarMultiplier(stars)
	speed := data.Stats.Speed
	if speed <= 0 {
		speed = 1
	}
	rng := data.Stats.Range
	if rng <= 0 {
		rng = 1
	}
	role := data.Role
	if role == "" {
		role = catalog.RoleMelee
	}
	u := &CombatUnit{
		ID:         data.ID,
		Faction:    data.Faction,
		Role:       role,
		Cost:       data.Cost,
		Ability:    data.Ability,
		Hex:        spec.Hex,
		Side:       spec.Side,
		Stars:      stars,
		OwnerID:    spec.OwnerID,
		HP:         round(float64(data.Stats.HP) * mult),
		Attack:     round(float64(data.Stats.Attack) * mult),
		Speed:      speed,
		Range:      rng,
		CritDamage: BaseCritDamage,
		MaxMana:    ManaToCast,
	}
	if role == catalog.RoleTank {
		u.Armor += TankArmor
		u.DamageReduction += TankDamageReduction
	}
	if spec.Side == Attacker {
		if b, ok := spec.Bonuses[data.Faction]; ok {
			applyBonus(u, b)
		}
	}
	u.MaxHP = u.HP
	u.ActionCooldown = 1000 / u.Speed
	u.MoveCooldown = 600 / u.Speed
	return u, true
}

func applyBonus(u *CombatUnit, b catalog.Bonus) {
	if b.HPAmp != 0 {
		u.HP = round(float64(u.HP) * (1 + b.HPAmp/100))
	}
	if b.AttackAmp != 0 {
		u.Attack = round(float64(u.Attack) * (1 + b.AttackAmp/100))
	}
	if b.AttackSpeed != 0 {
		u.Speed *= 1 + b.AttackSpeed/100
	}
	u.Armor += b.Armor
	u.CritChance += b.CritChance
	u.CritDamage += b.CritDamage
	u.Lifesteal += b.Lifesteal
}
