package controller

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/collision"
)

// updatePlatform samples the velocity of the platform whose trigger area the
// actor overlaps. A platform is resolved through the provider once per
// contact and dropped from the cache when contact ends.
func (c *Controller) updatePlatform() {
	id, ok := c.collider.OverlapPlatform(c.pos)
	if !ok || c.platforms == nil {
		c.leavePlatform()
		return
	}
	if id != c.platform {
		c.leavePlatform()
	}

	ref, cached := c.platformCache.Get(id)
	if !cached {
		p, found := c.platforms.Platform(id)
		if !found {
			return
		}
		ref = platformRef{platform: p}
		c.log.WithField("object", id).Debug("controller: platform contact")
	}
	ref.velocity = ref.platform.Velocity()
	c.platformCache.Set(id, ref)
	c.platform = id
	c.external = ref.velocity
}

func (c *Controller) leavePlatform() {
	if c.platform.Valid() {
		c.platformCache.Remove(c.platform)
		c.log.WithField("object", c.platform).Debug("controller: platform left")
	}
	c.platform = 0
	c.external = cp.Vector{}
}

// snapToPlatform seats an airborne, vertically still rider on the platform
// below it. A snapped rider counts as grounded until the next frame.
func (c *Controller) snapToPlatform() {
	c.snapped = false
	if !c.platform.Valid() || c.collider.Grounded() || c.machine.Velocity().Y != 0 {
		return
	}
	if !c.collider.State(collision.SidePlatformDown).HasHit {
		return
	}
	c.ForceVerticalReposition(collision.SidePlatformDown)
	c.snapped = true
}

// PlatformCacheLen returns the number of cached platform references.
func (c *Controller) PlatformCacheLen() int {
	return c.platformCache.Len()
}
