package render

// pageTemplate is the html/template for the public portfolio page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{if .Hero.Name}}{{.Hero.Name}}{{else}}Portfolio{{end}}</title>
  <style>` + cssContent + `</style>
</head>
<body>
  <section class="hero" id="home">
    <div class="hero-background-slideshow" id="hero-background-slideshow">
      {{range $i, $s := .HeroSlides}}<img src="{{src $s}}" alt="Hero background image" loading="eager"{{if eq $i 0}} class="active"{{end}}>{{end}}
    </div>
    <div class="hero-content">
      <h1 id="hero-name">{{.Hero.Name}}</h1>
      {{if .Hero.Subtitle}}<p class="hero-subtitle" id="hero-subtitle">{{.Hero.Subtitle}}</p>{{end}}
      {{if .Hero.Description}}<p class="hero-description" id="hero-description">{{.Hero.Description}}</p>{{end}}
    </div>
  </section>

  <section class="about" id="about">
    <h2>About</h2>
    <div id="about-text">{{range .About}}{{.}}{{end}}</div>
    {{if .Skills}}<div class="skills-grid" id="skills-grid">{{range .Skills}}<div class="skill-item">{{.}}</div>{{end}}</div>{{end}}
  </section>

  <section class="projects" id="projects">
    <h2>Projects</h2>
    <div class="projects-grid" id="projects-grid">
    {{range .Projects}}
      <div class="project-card">
        <div class="project-image">
        {{if .Thumbnail}}
          {{if .VideoURL}}<a href="{{.VideoURL}}" target="_blank" class="project-thumbnail-link">{{end}}
          <img src="{{src .Thumbnail}}" alt="{{.Name}}" data-fallbacks="{{range $i, $f := .Fallbacks}}{{if $i}} {{end}}{{$f}}{{end}}">
          <div class="project-placeholder" style="display: none;">{{.Name}}</div>
          {{if .VideoURL}}</a>{{end}}
        {{else}}
          <div class="project-placeholder">{{.Name}}</div>
        {{end}}
        </div>
        <div class="project-content">
          <h3>{{.Name}}</h3>
          <p class="project-summary">{{.Summary}}</p>
          {{if .Technologies}}<div class="project-tech">{{range .Technologies}}<span>{{.}}</span>{{end}}</div>{{end}}
          {{if or .ProjectURL .SourceURL}}<div class="project-links">
            {{if .ProjectURL}}<a href="{{.ProjectURL}}" class="project-link" target="_blank">View Project</a>{{end}}
            {{if .SourceURL}}<a href="{{.SourceURL}}" class="project-link" target="_blank">Source Code</a>{{end}}
          </div>{{end}}
        </div>
      </div>
    {{else}}
      <p class="empty">No projects yet. Use the admin panel to add projects!</p>
    {{end}}
    </div>
  </section>

  <section class="gallery" id="gallery">
    <h2>Gallery</h2>
    <div id="gallery-grid">
    {{range .Gallery.Sections}}
      <div class="gallery-section-display">
        {{if .Name}}<h3 class="gallery-section-title">{{.Name}}</h3>{{end}}
        <div class="gallery-grid">
        {{range .Items}}
          <div class="gallery-item" id="{{.ID}}" data-item="{{.ID}}"{{if .Cycles}} data-cycles="true"{{end}}>
            <div class="gallery-image-wrapper">
              <img src="{{src .Primary}}" alt="{{.Alt}}" loading="lazy">
              <div class="gallery-overlay"><div class="gallery-content">
                {{if .Title}}<h4>{{.Title}}</h4>{{end}}
                {{if .Description}}<p>{{.Description}}</p>{{end}}
              </div></div>
            </div>
          </div>
        {{end}}
        </div>
      </div>
    {{else}}
      <p class="empty">No gallery images yet. Use the admin panel to add images!</p>
    {{end}}
    </div>
  </section>

  <section class="contact" id="contact">
    <h2>Contact</h2>
    <div class="contact-info">
      {{with .Contact.Email}}<p><a href="mailto:{{.}}">{{.}}</a></p>{{end}}
      {{with .Contact.Phone}}<p><a href="tel:{{.}}">{{.}}</a></p>{{end}}
      <div class="social-links">
        {{with .Contact.LinkedIn}}<a href="{{.}}" target="_blank">LinkedIn</a>{{end}}
        {{with .Contact.GitHub}}<a href="{{.}}" target="_blank">GitHub</a>{{end}}
        {{with .Contact.Twitter}}<a href="{{.}}" target="_blank">Twitter</a>{{end}}
      </div>
    </div>
  </section>

  <div id="gallery-lightbox" class="gallery-lightbox">
    <div class="lightbox-content">
      <button class="lightbox-close" aria-label="Close">&times;</button>
      <button class="lightbox-nav lightbox-prev" aria-label="Previous image">&#8249;</button>
      <button class="lightbox-nav lightbox-next" aria-label="Next image">&#8250;</button>
      <div class="lightbox-image-container"><img class="lightbox-image" src="" alt=""></div>
      <div class="lightbox-info">
        <h3 class="lightbox-title"></h3>
        <p class="lightbox-description"></p>
        <div class="lightbox-dots"></div>
      </div>
    </div>
  </div>

  <script>
    const folio = { session: {{.SessionPath}}, placeholder: {{.Placeholder}}, slideMillis: {{.SlideMillis}} };
  </script>
  <script>` + jsContent + `</script>
</body>
</html>`

const cssContent = `
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: system-ui, -apple-system, sans-serif; color: #1f2933; line-height: 1.6; }
section { padding: 4rem 2rem; max-width: 1200px; margin: 0 auto; }
h2 { margin-bottom: 1.5rem; }
.empty { text-align: center; color: #666; padding: 2rem; }
.hero { position: relative; min-height: 70vh; display: flex; align-items: center; justify-content: center; max-width: none; overflow: hidden; color: #fff; background: #111827; }
.hero-background-slideshow img { position: absolute; inset: 0; width: 100%; height: 100%; object-fit: cover; opacity: 0; transition: opacity 1s ease; }
.hero-background-slideshow img.active { opacity: .35; }
.hero-content { position: relative; text-align: center; }
.skills-grid { display: flex; flex-wrap: wrap; gap: .5rem; margin-top: 1.5rem; }
.skill-item { padding: .4rem .9rem; border-radius: 999px; background: #e7f5ff; }
.projects-grid, .gallery-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(260px, 1fr)); gap: 1.5rem; }
.project-card { border-radius: 12px; overflow: hidden; box-shadow: 0 4px 12px rgba(0,0,0,.1); }
.project-image { position: relative; aspect-ratio: 16/9; background: #e0e0e0; }
.project-image img { width: 100%; height: 100%; object-fit: cover; }
.project-placeholder { display: flex; align-items: center; justify-content: center; height: 100%; color: #666; }
.project-content { padding: 1rem; }
.project-tech span { display: inline-block; margin: .2rem .3rem 0 0; padding: .1rem .5rem; border-radius: 4px; background: #f1f3f5; font-size: .85rem; }
.project-link { margin-right: 1rem; }
.gallery-section-display { margin-bottom: 2.5rem; }
.gallery-section-title { margin-bottom: 1rem; }
.gallery-item { cursor: pointer; border-radius: 12px; overflow: hidden; }
.gallery-image-wrapper { position: relative; aspect-ratio: 1; }
.gallery-image-wrapper img { width: 100%; height: 100%; object-fit: cover; }
.gallery-overlay { position: absolute; inset: 0; display: flex; align-items: flex-end; padding: 1rem; color: #fff; background: linear-gradient(transparent, rgba(0,0,0,.7)); opacity: 0; transition: opacity .3s; }
.gallery-item:hover .gallery-overlay { opacity: 1; }
.gallery-lightbox { display: none; position: fixed; inset: 0; z-index: 1000; background: rgba(0,0,0,.9); align-items: center; justify-content: center; }
.gallery-lightbox.active { display: flex; }
.lightbox-content { position: relative; max-width: 90vw; max-height: 90vh; color: #fff; text-align: center; }
.lightbox-image-container { cursor: grab; }
.lightbox-image { max-width: 90vw; max-height: 75vh; user-select: none; }
.lightbox-close { position: absolute; top: -2.5rem; right: 0; font-size: 2rem; background: none; border: 0; color: #fff; cursor: pointer; }
.lightbox-nav { position: absolute; top: 40%; font-size: 3rem; background: none; border: 0; color: #fff; cursor: pointer; }
.lightbox-prev { left: -3rem; }
.lightbox-next { right: -3rem; }
.lightbox-dots { margin-top: .5rem; }
.lightbox-dot { display: inline-block; width: 10px; height: 10px; margin: 0 4px; border-radius: 50%; background: #666; cursor: pointer; }
.lightbox-dot.active { background: #fff; }
`

const jsContent = `
(function () {
  const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
  const ws = new WebSocket(scheme + location.host + folio.session);
  const send = (msg) => { if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg)); };

  const lightbox = document.getElementById('gallery-lightbox');
  const lbImage = lightbox.querySelector('.lightbox-image');
  const lbTitle = lightbox.querySelector('.lightbox-title');
  const lbDesc = lightbox.querySelector('.lightbox-description');
  const lbDots = lightbox.querySelector('.lightbox-dots');
  const lbPrev = lightbox.querySelector('.lightbox-prev');
  const lbNext = lightbox.querySelector('.lightbox-next');
  const container = lightbox.querySelector('.lightbox-image-container');

  document.querySelectorAll('img').forEach((img) => {
    img.addEventListener('error', () => {
      const fallbacks = (img.dataset.fallbacks || '').split(' ').filter(Boolean);
      if (fallbacks.length > 0) {
        img.src = fallbacks.shift();
        img.dataset.fallbacks = fallbacks.join(' ');
        return;
      }
      if (img.src !== folio.placeholder) img.src = folio.placeholder;
    });
  });

  document.querySelectorAll('.gallery-item').forEach((tile) => {
    const item = tile.dataset.item;
    if (tile.dataset.cycles) {
      tile.addEventListener('mouseenter', () => send({ type: 'hover_enter', item }));
      tile.addEventListener('mouseleave', () => send({ type: 'hover_leave', item }));
    }
    tile.addEventListener('click', () => send({ type: 'open', item }));
  });

  ws.addEventListener('message', (ev) => {
    const msg = JSON.parse(ev.data);
    if (msg.type === 'frame') {
      const tile = document.getElementById(msg.item);
      const img = tile && tile.querySelector('img');
      if (img) img.src = msg.src || folio.placeholder;
    } else if (msg.type === 'lightbox') {
      showLightbox(msg.state);
    }
  });

  function showLightbox(state) {
    if (!state || !state.open) {
      lightbox.classList.remove('active');
      document.body.style.overflow = '';
      return;
    }
    lbImage.src = state.src || folio.placeholder;
    lbImage.alt = state.title || 'Gallery image';
    lbTitle.textContent = state.title || '';
    lbTitle.style.display = state.title ? 'block' : 'none';
    lbDesc.textContent = state.description || '';
    lbDesc.style.display = state.description ? 'block' : 'none';
    const multi = state.count > 1;
    lbPrev.style.display = multi ? 'block' : 'none';
    lbNext.style.display = multi ? 'block' : 'none';
    lbDots.innerHTML = '';
    lbDots.style.display = (state.dots || []).length ? 'block' : 'none';
    (state.dots || []).forEach((active, index) => {
      const dot = document.createElement('span');
      dot.className = 'lightbox-dot' + (active ? ' active' : '');
      dot.addEventListener('click', (e) => { e.stopPropagation(); send({ type: 'dot', index }); });
      lbDots.appendChild(dot);
    });
    lightbox.classList.add('active');
    document.body.style.overflow = 'hidden';
  }

  lightbox.querySelector('.lightbox-close').addEventListener('click', (e) => { e.stopPropagation(); send({ type: 'close' }); });
  lbPrev.addEventListener('click', (e) => { e.stopPropagation(); send({ type: 'key', key: 'ArrowLeft' }); });
  lbNext.addEventListener('click', (e) => { e.stopPropagation(); send({ type: 'key', key: 'ArrowRight' }); });
  lightbox.addEventListener('click', (e) => { if (e.target === lightbox) send({ type: 'background' }); });
  document.addEventListener('keydown', (e) => {
    if (lightbox.classList.contains('active')) send({ type: 'key', key: e.key });
  });

  let touchStart = 0, touchEnd = 0, dragStart = null;
  container.addEventListener('touchstart', (e) => { touchStart = touchEnd = e.touches[0].clientX; }, { passive: true });
  container.addEventListener('touchmove', (e) => { touchEnd = e.touches[0].clientX; }, { passive: true });
  container.addEventListener('touchend', () => send({ type: 'swipe', start_x: touchStart, end_x: touchEnd }));
  container.addEventListener('mousedown', (e) => { dragStart = e.clientX; container.style.cursor = 'grabbing'; });
  container.addEventListener('mouseup', (e) => {
    if (dragStart !== null) send({ type: 'drag', start_x: dragStart, end_x: e.clientX });
    dragStart = null;
    container.style.cursor = 'grab';
  });
  container.addEventListener('mouseleave', () => { dragStart = null; container.style.cursor = 'grab'; });

  const slides = document.querySelectorAll('#hero-background-slideshow img');
  if (slides.length > 1) {
    let current = 0;
    setInterval(() => {
      slides[current].classList.remove('active');
      current = (current + 1) % slides.length;
      slides[current].classList.add('active');
    }, folio.slideMillis);
  }
})();
`
