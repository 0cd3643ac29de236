package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/units.yaml
var unitsYAML []byte

//go:embed data/synergies.yaml
var synergiesYAML []byte

// Role drives the flat defensive bonuses a unit gets in combat.
type Role string

const (
	RoleTank   Role = "Tank"
	RoleRanged Role = "Ranged"
	RoleMelee  Role = "Melee"
)

// Faction identifies a synergy group.
type Faction string

const (
	Alley        Faction = "Alley"
	Persian      Faction = "Persian"
	Siamese      Faction = "Siamese"
	MaineCoon    Faction = "MaineCoon"
	Bengal       Faction = "Bengal"
	Sphynx       Faction = "Sphynx"
	ScottishFold Faction = "ScottishFold"
	Ragdoll      Faction = "Ragdoll"
)

// Economy and roster sizes.
const (
	ShopSize    = 5
	BenchSize   = 9
	MaxLevel    = 9
	MaxStars    = 3
	RerollCost  = 2
	LevelUpCost = 4
	MaxCost     = 5
)

type Stats struct {
	HP     int     `yaml:"hp" json:"hp" msgpack:"hp"`
	Attack int     `yaml:"attack" json:"attack" msgpack:"attack"`
	Speed  float64 `yaml:"speed" json:"speed" msgpack:"speed"`
	Range  int     `yaml:"range" json:"range" msgpack:"range"`
}

// Ability is descriptive only; the simulator does not interpret it.
type Ability struct {
	Name    string         `yaml:"name" json:"name" msgpack:"name"`
	Trigger string         `yaml:"trigger" json:"trigger" msgpack:"trigger"`
	Effect  map[string]any `yaml:"effect" json:"effect,omitempty" msgpack:"effect,omitempty"`
}

type Unit struct {
	ID      string  `yaml:"id" json:"id" msgpack:"id"`
	Name    string  `yaml:"name" json:"name" msgpack:"name"`
	Faction Faction `yaml:"faction" json:"faction" msgpack:"faction"`
	Coat    string  `yaml:"coat" json:"coat" msgpack:"coat"`
	Cost    int     `yaml:"cost" json:"cost" msgpack:"cost"`
	Role    Role    `yaml:"role" json:"role" msgpack:"role"`
	Color   string  `yaml:"color" json:"color" msgpack:"color"`
	Icon    string  `yaml:"icon" json:"icon" msgpack:"icon"`
	Stats   Stats   `yaml:"stats" json:"stats" msgpack:"stats"`
	Ability Ability `yaml:"ability" json:"ability" msgpack:"ability"`
}

// Bonus is one synergy tier. Only the named numeric fields affect combat;
// everything else in the data file lands in Extra.
type Bonus struct {
	Description string  `yaml:"description" json:"description" msgpack:"description"`
	HPAmp       float64 `yaml:"hp_amp" json:"hp_amp,omitempty" msgpack:"hp_amp,omitempty"`
	AttackAmp   float64 `yaml:"attack_amp" json:"attack_amp,omitempty" msgpack:"attack_amp,omitempty"`
	AttackSpeed float64 `yaml:"attack_speed" json:"attack_speed,omitempty" msgpack:"attack_speed,omitempty"`
	Armor       float64 `yaml:"armor" json:"armor,omitempty" msgpack:"armor,omitempty"`
	CritChance  float64 `yaml:"crit_chance" json:"crit_chance,omitempty" msgpack:"crit_chance,omitempty"`
	CritDamage  float64 `yaml:"crit_damage" json:"crit_damage,omitempty" msgpack:"crit_damage,omitempty"`
	Lifesteal   float64 `yaml:"lifesteal" json:"lifesteal,omitempty" msgpack:"lifesteal,omitempty"`

	Extra map[string]any `yaml:",inline" json:"extra,omitempty" msgpack:"extra,omitempty"`
}

type Tier struct {
	Threshold int   `yaml:"threshold" json:"threshold" msgpack:"threshold"`
	Bonus     Bonus `yaml:"bonus" json:"bonus" msgpack:"bonus"`
}

type FactionInfo struct {
	ID    Faction `yaml:"id" json:"id" msgpack:"id"`
	Name  string  `yaml:"name" json:"name" msgpack:"name"`
	Icon  string  `yaml:"icon" json:"icon" msgpack:"icon"`
	Color string  `yaml:"color" json:"color" msgpack:"color"`
	Tiers []Tier  `yaml:"tiers" json:"tiers" msgpack:"tiers"`
}

// Catalog is the read-only unit and synergy table shared by every match.
type Catalog struct {
	units     []Unit
	byID      map[string]int
	byCost    map[int][]string
	factions  []FactionInfo
	byFaction map[Faction]int
	odds      map[int][MaxCost]int
	oddsMax   int
}

type unitsFile struct {
	Units []Unit `yaml:"units"`
}

type synergiesFile struct {
	Factions []FactionInfo `yaml:"factions"`
	ShopOdds map[int][]int `yaml:"shop_odds"`
}

// Load parses the unit and synergy documents.
func Load(unitsDoc, synergiesDoc []byte) (*Catalog, error) {
	var uf unitsFile
	if err := yaml.Unmarshal(unitsDoc, &uf); err != nil {
		return nil, fmt.Errorf("catalog: parse units: %w", err)
	}
	var sf synergiesFile
	if err := yaml.Unmarshal(synergiesDoc, &sf); err != nil {
		return nil, fmt.Errorf("catalog: parse synergies: %w", err)
	}
	c := &Catalog{
		units:     uf.Units,
		byID:      make(map[string]int, len(uf.Units)),
		byCost:    map[int][]string{},
		byFaction: map[Faction]int{},
		odds:      map[int][MaxCost]int{},
	}
	for i, u := range uf.Units {
		if u.ID == "" {
			return nil, fmt.Errorf("catalog: unit #%d has no id", i)
		}
		if _, dup := c.byID[u.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate unit %q", u.ID)
		}
		if u.Cost < 1 || u.Cost > MaxCost {
			return nil, fmt.Errorf("catalog: unit %q cost %d out of range", u.ID, u.Cost)
		}
		if u.Stats.Speed <= 0 {
			return nil, fmt.Errorf("catalog: unit %q has non-positive speed", u.ID)
		}
		c.byID[u.ID] = i
		c.byCost[u.Cost] = append(c.byCost[u.Cost], u.ID)
	}
	if len(c.byCost[1]) == 0 {
		return nil, fmt.Errorf("catalog: no 1-cost units")
	}
	for i, f := range sf.Factions {
		sort.Slice(f.Tiers, func(a, b int) bool { return f.Tiers[a].Threshold < f.Tiers[b].Threshold })
		sf.Factions[i] = f
		c.byFaction[f.ID] = i
	}
	c.factions = sf.Factions
	for level, row := range sf.ShopOdds {
		if len(row) != MaxCost {
			return nil, fmt.Errorf("catalog: shop odds for level %d need %d entries", level, MaxCost)
		}
		var arr [MaxCost]int
		copy(arr[:], row)
		c.odds[level] = arr
		if level > c.oddsMax {
			c.oddsMax = level
		}
	}
	if _, ok := c.odds[1]; !ok {
		return nil, fmt.Errorf("catalog: shop odds missing level 1")
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(unitsYAML, synergiesYAML)
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

func (c *Catalog) Lookup(id string) (Unit, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Unit{}, false
	}
	return c.units[i], true
}

// Cost returns the unit's shop cost, or 0 for unknown ids.
func (c *Catalog) Cost(id string) int {
	if u, ok := c.Lookup(id); ok {
		return u.Cost
	}
	return 0
}

// Units returns every unit in file order.
func (c *Catalog) Units() []Unit {
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// Tier lists the ids of every unit at the given cost.
func (c *Catalog) Tier(cost int) []string {
	return append([]string(nil), c.byCost[cost]...)
}

func (c *Catalog) Factions() []FactionInfo {
	out := make([]FactionInfo, len(c.factions))
	copy(out, c.factions)
	return out
}

func (c *Catalog) Faction(f Faction) (FactionInfo, bool) {
	i, ok := c.byFaction[f]
	if !ok {
		return FactionInfo{}, false
	}
	return c.factions[i], true
}

// Odds returns the per-cost percentages used at level. Levels past the
// table use its last row.
func (c *Catalog) Odds(level int) [MaxCost]int {
	if level > c.oddsMax {
		level = c.oddsMax
	}
	if o, ok := c.odds[level]; ok {
		return o
	}
	return c.odds[1]
}

// Rand is the subset of *rand.Rand the shop needs.
type Rand interface {
	Intn(n int) int
}

// RollShopUnit picks one shop offer for a player of the given level.
func (c *Catalog) RollShopUnit(rng Rand, level int) string {
	odds := c.Odds(level)
	roll := rng.Intn(100)
	cumulative := 0
	for tier := 1; tier <= MaxCost; tier++ {
		cumulative += odds[tier-1]
		if roll < cumulative {
			if ids := c.byCost[tier]; len(ids) > 0 {
				return ids[rng.Intn(len(ids))]
			}
		}
	}
	ids := c.byCost[1]
	return ids[rng.Intn(len(ids))]
}

// RollShop fills a full shop.
func (c *Catalog) RollShop(rng Rand, level int) [ShopSize]string {
	var shop [ShopSize]string
	for i := range shop {
		shop[i] = c.RollShopUnit(rng, level)
	}
	return shop
}

// SellValue is cost times 1, 3 or 9 by star level.
func SellValue(cost, stars int) int {
	switch stars {
	case 2:
		return cost * 3
	case 3:
		return cost * 9
	}
	return cost
}

// StarMultiplier scales hp and attack.
func StarMultiplier(stars int) float64 {
	switch stars {
	case 2:
		return 1.8
	case 3:
		return 3.0
	}
	return 1.0
}
